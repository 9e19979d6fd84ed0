package verify

import (
	"context"
	"log/slog"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
)

// Synthetic returns deterministic descriptors without any outbound call. It is
// selected when no registry credential is configured, so the whole system runs
// without network access or secrets. Synthetic MC records resolve as brokers
// so the broker gate can be exercised end to end.
type Synthetic struct {
	logger *slog.Logger
}

// NewSynthetic creates the synthetic verifier.
func NewSynthetic(logger *slog.Logger) *Synthetic {
	return &Synthetic{logger: logger}
}

// VerifyMC returns a deterministic broker descriptor for any digits-only MC number.
func (s *Synthetic) VerifyMC(ctx context.Context, mcNumber string) (*CompanyDescriptor, error) {
	if err := validateDigits("MC", mcNumber); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "synthetic registry lookup", slog.String("mc_number", mcNumber))

	return &CompanyDescriptor{
		MCNumber:     mcNumber,
		CompanyName:  "Test Company " + mcNumber,
		EntityType:   domain.EntityBroker,
		Status:       "Authorized for Property",
		SafetyRating: "Satisfactory",
		Mock:         true,
	}, nil
}

// VerifyDOT returns a deterministic carrier descriptor for any digits-only DOT number.
func (s *Synthetic) VerifyDOT(ctx context.Context, dotNumber string) (*CompanyDescriptor, error) {
	if err := validateDigits("DOT", dotNumber); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "synthetic registry lookup", slog.String("dot_number", dotNumber))

	return &CompanyDescriptor{
		DOTNumber:    dotNumber,
		CompanyName:  "Test Carrier " + dotNumber,
		Status:       "Authorized for Property",
		SafetyRating: "Satisfactory",
		Mock:         true,
	}, nil
}

// VerifyBroker composes VerifyMC; synthetic MC records are always brokers.
func (s *Synthetic) VerifyBroker(ctx context.Context, mcNumber string) (*CompanyDescriptor, error) {
	desc, err := s.VerifyMC(ctx, mcNumber)
	if err != nil {
		return nil, err
	}

	authority, _ := s.AuthorityInfo(ctx, desc.DOTNumber)
	desc.Authority = authority
	return desc, nil
}

// AuthorityInfo returns a fixed active-authority record.
func (s *Synthetic) AuthorityInfo(ctx context.Context, dotNumber string) (*AuthorityInfo, error) {
	return &AuthorityInfo{
		BrokerAuthority:   "Active",
		InsuranceRequired: "Yes",
		BOC3Filed:         true,
		Mock:              true,
	}, nil
}
