package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/httpclient"
)

// FMCSAClient looks up carriers in the FMCSA QCMobile API. Each lookup is a
// single attempt with a bounded timeout; every non-2xx response and transport
// failure degrades to not-found with the cause logged. Callers must treat
// registry unavailability as a normal outcome.
type FMCSAClient struct {
	baseURL string
	apiKey  string
	client  *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewFMCSAClient creates the live registry client.
func NewFMCSAClient(baseURL, apiKey string, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *FMCSAClient {
	return &FMCSAClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

// qcCarrier mirrors the carrier object of the QCMobile response.
type qcCarrier struct {
	MCNumber        json.Number `json:"mcNumber"`
	DOTNumber       json.Number `json:"dotNumber"`
	LegalName       string      `json:"legalName"`
	DBAName         string      `json:"dbaName"`
	OperatingStatus string      `json:"operatingStatus"`
	SafetyRating    string      `json:"safetyRating"`
	Phone           string      `json:"phone"`
	EntityType      string      `json:"entityType"`
	PhyCity         string      `json:"phyCity"`
	PhyState        string      `json:"phyState"`
}

type qcResponse struct {
	Content struct {
		Carrier *qcCarrier `json:"carrier"`
	} `json:"content"`
}

type qcAuthorityResponse struct {
	Content struct {
		BrokerAuthority   string `json:"brokerAuthorityStatus"`
		InsuranceRequired string `json:"insuranceRequired"`
		BOC3Filed         bool   `json:"boc3Filed"`
	} `json:"content"`
}

// VerifyMC resolves a motor-carrier number via the docket-number endpoint.
func (c *FMCSAClient) VerifyMC(ctx context.Context, mcNumber string) (*CompanyDescriptor, error) {
	if err := validateDigits("MC", mcNumber); err != nil {
		return nil, err
	}

	desc, err := c.lookup(ctx, "docket-number/"+mcNumber)
	if err != nil {
		return nil, apperrors.NotFound("mc number", mcNumber)
	}
	if desc.MCNumber == "" {
		desc.MCNumber = mcNumber
	}
	return desc, nil
}

// VerifyDOT resolves a USDOT number via the dot endpoint.
func (c *FMCSAClient) VerifyDOT(ctx context.Context, dotNumber string) (*CompanyDescriptor, error) {
	if err := validateDigits("DOT", dotNumber); err != nil {
		return nil, err
	}

	desc, err := c.lookup(ctx, "dot/"+dotNumber)
	if err != nil {
		return nil, apperrors.NotFound("dot number", dotNumber)
	}
	if desc.DOTNumber == "" {
		desc.DOTNumber = dotNumber
	}
	return desc, nil
}

// VerifyBroker resolves an MC number and rejects any record whose entity type
// is not exactly BROKER. Authority data is attached best effort.
func (c *FMCSAClient) VerifyBroker(ctx context.Context, mcNumber string) (*CompanyDescriptor, error) {
	desc, err := c.VerifyMC(ctx, mcNumber)
	if err != nil {
		return nil, err
	}

	if desc.EntityType != domain.EntityBroker {
		c.logger.InfoContext(ctx, "mc number is not a broker",
			slog.String("mc_number", mcNumber),
			slog.String("entity_type", string(desc.EntityType)),
		)
		return nil, apperrors.NotFound("broker", mcNumber)
	}

	if desc.DOTNumber != "" {
		if authority, err := c.AuthorityInfo(ctx, desc.DOTNumber); err == nil {
			desc.Authority = authority
		}
	}

	return desc, nil
}

// AuthorityInfo looks up operating authority by DOT number.
func (c *FMCSAClient) AuthorityInfo(ctx context.Context, dotNumber string) (*AuthorityInfo, error) {
	if err := validateDigits("DOT", dotNumber); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, dotNumber+"/authority")
	if err != nil {
		return nil, apperrors.NotFound("authority record", dotNumber)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "authority lookup failed",
			slog.String("dot_number", dotNumber),
			slog.Int("status", resp.StatusCode),
		)
		return nil, apperrors.NotFound("authority record", dotNumber)
	}

	var parsed qcAuthorityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WarnContext(ctx, "authority response decode failed",
			slog.String("dot_number", dotNumber),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("authority record", dotNumber)
	}

	return &AuthorityInfo{
		BrokerAuthority:   parsed.Content.BrokerAuthority,
		InsuranceRequired: parsed.Content.InsuranceRequired,
		BOC3Filed:         parsed.Content.BOC3Filed,
	}, nil
}

// lookup performs one carrier lookup and normalizes the response.
func (c *FMCSAClient) lookup(ctx context.Context, path string) (*CompanyDescriptor, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		c.logger.WarnContext(ctx, "registry lookup failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.InfoContext(ctx, "registry lookup non-success",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("registry status %d", resp.StatusCode)
	}

	var parsed qcResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WarnContext(ctx, "registry response decode failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	carrier := parsed.Content.Carrier
	if carrier == nil {
		return nil, fmt.Errorf("registry response has no carrier record")
	}

	return &CompanyDescriptor{
		MCNumber:      carrier.MCNumber.String(),
		DOTNumber:     carrier.DOTNumber.String(),
		CompanyName:   carrier.LegalName,
		DBAName:       carrier.DBAName,
		EntityType:    domain.EntityType(carrier.EntityType),
		Status:        carrier.OperatingStatus,
		SafetyRating:  carrier.SafetyRating,
		Phone:         carrier.Phone,
		PhysicalCity:  carrier.PhyCity,
		PhysicalState: carrier.PhyState,
	}, nil
}

func (c *FMCSAClient) get(ctx context.Context, path string) (*http.Response, error) {
	u := fmt.Sprintf("%s/%s?webKey=%s", c.baseURL, path, url.QueryEscape(c.apiKey))
	return c.client.Get(ctx, u)
}
