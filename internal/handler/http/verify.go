package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/verify"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/httputil"
)

// VerifyHandler handles HTTP requests for FMCSA identifier verification.
type VerifyHandler struct {
	verifier verify.Verifier
	logger   *slog.Logger
}

// NewVerifyHandler creates a new verification HTTP handler.
func NewVerifyHandler(verifier verify.Verifier, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{
		verifier: verifier,
		logger:   logger,
	}
}

type verifyResponse struct {
	Verified bool                      `json:"verified"`
	Company  *verify.CompanyDescriptor `json:"company,omitempty"`
}

// VerifyMC handles GET /api/v1/verify/mc/{number}
func (h *VerifyHandler) VerifyMC(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (*verify.CompanyDescriptor, error) {
		return h.verifier.VerifyMC(r.Context(), chi.URLParam(r, "number"))
	})
}

// VerifyDOT handles GET /api/v1/verify/dot/{number}
func (h *VerifyHandler) VerifyDOT(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (*verify.CompanyDescriptor, error) {
		return h.verifier.VerifyDOT(r.Context(), chi.URLParam(r, "number"))
	})
}

// VerifyBroker handles GET /api/v1/verify/broker/{number}
func (h *VerifyHandler) VerifyBroker(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func() (*verify.CompanyDescriptor, error) {
		return h.verifier.VerifyBroker(r.Context(), chi.URLParam(r, "number"))
	})
}

// respond maps the verifier outcome onto the wire: a descriptor verifies, a
// not-found (which also covers upstream failures) yields verified false with
// 200, and a malformed identifier is the caller's error.
func (h *VerifyHandler) respond(w http.ResponseWriter, r *http.Request, lookup func() (*verify.CompanyDescriptor, error)) {
	descriptor, err := lookup()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: verifyResponse{Verified: false}})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: verifyResponse{
		Verified: true,
		Company:  descriptor,
	}})
}
