package verify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestClient(t *testing.T, baseURL string) *FMCSAClient {
	t.Helper()
	cfg := httpclient.Config{
		Timeout:         time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 5,
	}
	breakerCfg := httpclient.CircuitBreakerConfig{
		Name:         fmt.Sprintf("fmcsa-test-%d", time.Now().UnixNano()),
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 1.0,
		MinRequests:  1000,
	}
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(cfg), breakerCfg, discardLogger())
	return NewFMCSAClient(baseURL, "test-key", cb, discardLogger())
}

// ─── Synthetic ───────────────────────────────────────────────────────────────

func TestSynthetic_VerifyMC(t *testing.T) {
	v := NewSynthetic(discardLogger())

	desc, err := v.VerifyMC(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", desc.MCNumber)
	assert.Equal(t, "Test Company 12345", desc.CompanyName)
	assert.Equal(t, domain.EntityBroker, desc.EntityType)
	assert.True(t, desc.Mock)
}

func TestSynthetic_VerifyDOT(t *testing.T) {
	v := NewSynthetic(discardLogger())

	desc, err := v.VerifyDOT(context.Background(), "789012")
	require.NoError(t, err)
	assert.Equal(t, "789012", desc.DOTNumber)
	assert.Equal(t, "Test Carrier 789012", desc.CompanyName)
	assert.True(t, desc.Mock)
}

func TestSynthetic_NonDigitInput(t *testing.T) {
	v := NewSynthetic(discardLogger())

	_, err := v.VerifyMC(context.Background(), "12A45")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = v.VerifyDOT(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = v.VerifyBroker(context.Background(), "12-45")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSynthetic_VerifyBroker(t *testing.T) {
	v := NewSynthetic(discardLogger())

	desc, err := v.VerifyBroker(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, domain.EntityBroker, desc.EntityType)
	require.NotNil(t, desc.Authority)
	assert.Equal(t, "Active", desc.Authority.BrokerAuthority)
	assert.True(t, desc.Authority.Mock)
}

// ─── FMCSAClient ─────────────────────────────────────────────────────────────

func TestFMCSAClient_VerifyMC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docket-number/12345", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("webKey"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":{"carrier":{
			"mcNumber":12345,"dotNumber":123456,
			"legalName":"Swift Transportation","dbaName":"Swift Freight",
			"operatingStatus":"AUTHORIZED FOR Property","safetyRating":"S",
			"entityType":"BROKER","phyCity":"Phoenix","phyState":"AZ"}}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	desc, err := c.VerifyMC(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", desc.MCNumber)
	assert.Equal(t, "123456", desc.DOTNumber)
	assert.Equal(t, "Swift Transportation", desc.CompanyName)
	assert.Equal(t, domain.EntityBroker, desc.EntityType)
	assert.Equal(t, "Phoenix", desc.PhysicalCity)
	assert.False(t, desc.Mock)
}

func TestFMCSAClient_VerifyMC_NonDigitInputSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.VerifyMC(context.Background(), "12A45")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFMCSAClient_VerifyMC_UpstreamNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.VerifyMC(context.Background(), "99999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFMCSAClient_VerifyMC_UpstreamErrorDegradesToNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.VerifyMC(context.Background(), "12345")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFMCSAClient_VerifyMC_EmptyCarrier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":{}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.VerifyMC(context.Background(), "12345")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFMCSAClient_VerifyMC_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.VerifyMC(ctx, "12345")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFMCSAClient_VerifyBroker_RejectsCarrier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":{"carrier":{"mcNumber":55555,"legalName":"Knight Trucking","entityType":"CARRIER"}}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.VerifyBroker(context.Background(), "55555")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFMCSAClient_VerifyBroker_AttachesAuthority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docket-number/12345":
			fmt.Fprint(w, `{"content":{"carrier":{"mcNumber":12345,"dotNumber":123456,"legalName":"Swift Transportation","entityType":"BROKER"}}}`)
		case "/123456/authority":
			fmt.Fprint(w, `{"content":{"brokerAuthorityStatus":"Active","insuranceRequired":"Yes","boc3Filed":true}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	desc, err := c.VerifyBroker(context.Background(), "12345")
	require.NoError(t, err)
	require.NotNil(t, desc.Authority)
	assert.Equal(t, "Active", desc.Authority.BrokerAuthority)
	assert.True(t, desc.Authority.BOC3Filed)
	assert.False(t, desc.Authority.Mock)
}

func TestFMCSAClient_VerifyBroker_AuthorityFailureIsBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/docket-number/12345" {
			fmt.Fprint(w, `{"content":{"carrier":{"mcNumber":12345,"dotNumber":123456,"legalName":"Swift Transportation","entityType":"BROKER"}}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	desc, err := c.VerifyBroker(context.Background(), "12345")
	require.NoError(t, err)
	assert.Nil(t, desc.Authority)
}
