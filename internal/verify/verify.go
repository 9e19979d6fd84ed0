// Package verify resolves DOT/MC identifiers to company descriptors through
// the FMCSA registry. Two implementations exist, selected once at
// construction: Synthetic (no credential; deterministic descriptors flagged as
// mock data) and FMCSAClient (live lookups). Both are fail-closed: any
// upstream failure surfaces as not-found, never as a transport error.
package verify

import (
	"context"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

// CompanyDescriptor is the normalized registry record for a company.
type CompanyDescriptor struct {
	MCNumber    string            `json:"mc_number,omitempty"`
	DOTNumber   string            `json:"dot_number,omitempty"`
	CompanyName string            `json:"company_name"`
	DBAName     string            `json:"dba_name,omitempty"`
	EntityType  domain.EntityType `json:"entity_type,omitempty"`

	Status        string `json:"status,omitempty"`
	SafetyRating  string `json:"safety_rating,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PhysicalCity  string `json:"physical_city,omitempty"`
	PhysicalState string `json:"physical_state,omitempty"`

	// Mock marks descriptors produced without an outbound call.
	Mock bool `json:"mock"`

	Authority *AuthorityInfo `json:"authority,omitempty"`
}

// AuthorityInfo is the operating-authority record for a broker.
type AuthorityInfo struct {
	BrokerAuthority   string `json:"broker_authority,omitempty"`
	InsuranceRequired string `json:"insurance_required,omitempty"`
	BOC3Filed         bool   `json:"boc3_filed"`
	Mock              bool   `json:"mock"`
}

// Verifier resolves regulatory identifiers to company descriptors.
type Verifier interface {
	// VerifyMC resolves a motor-carrier number. Returns ErrInvalidInput
	// before any call when the number contains non-digits, ErrNotFound when
	// the registry has no record (or is unreachable).
	VerifyMC(ctx context.Context, mcNumber string) (*CompanyDescriptor, error)

	// VerifyDOT resolves a federal carrier (USDOT) number. Same error
	// contract as VerifyMC.
	VerifyDOT(ctx context.Context, dotNumber string) (*CompanyDescriptor, error)

	// VerifyBroker resolves an MC number and rejects (ErrNotFound) any
	// record whose entity type is not exactly BROKER. This is the gate for
	// letting a trucker target a previously unknown company.
	VerifyBroker(ctx context.Context, mcNumber string) (*CompanyDescriptor, error)

	// AuthorityInfo looks up a broker's operating authority by DOT number.
	AuthorityInfo(ctx context.Context, dotNumber string) (*AuthorityInfo, error)
}

// validateDigits rejects identifiers with anything but ASCII digits, before
// any collaborator call.
func validateDigits(kind, value string) error {
	if value == "" {
		return apperrors.InvalidInput(kind + " number must contain only digits")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return apperrors.InvalidInput(kind + " number must contain only digits")
		}
	}
	return nil
}
