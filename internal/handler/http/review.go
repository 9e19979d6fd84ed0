package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/service"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/httputil"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/pagination"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review.
type CreateReviewRequest struct {
	CompanyID     string `json:"company_id" validate:"required"`
	OverallRating int    `json:"overall_rating" validate:"required,min=1,max=5"`
	Title         string `json:"title" validate:"required,min=1,max=255"`
	Content       string `json:"content" validate:"required"`

	PaymentRating         *int    `json:"payment_rating" validate:"omitempty,min=1,max=5"`
	CommunicationRating   *int    `json:"communication_rating" validate:"omitempty,min=1,max=5"`
	ProfessionalismRating *int    `json:"professionalism_rating" validate:"omitempty,min=1,max=5"`
	HonestyRating         *int    `json:"honesty_rating" validate:"omitempty,min=1,max=5"`
	PaymentSpeed          *string `json:"payment_speed" validate:"omitempty,oneof=on_time late never_paid"`
	DaysToPayment         *int    `json:"days_to_payment" validate:"omitempty,gte=0"`

	LoadDate         *string `json:"load_date"`
	OriginCity       string  `json:"origin_city" validate:"max=100"`
	OriginState      string  `json:"origin_state" validate:"max=2"`
	DestinationCity  string  `json:"destination_city" validate:"max=100"`
	DestinationState string  `json:"destination_state" validate:"max=2"`
	FreightType      string  `json:"freight_type" validate:"max=100"`

	IssuesReported []string `json:"issues_reported"`
	WouldWorkAgain *bool    `json:"would_work_again"`
}

// RespondRequest is the JSON request body for a company response. It carries
// text only; there is no rating field to accept.
type RespondRequest struct {
	Content        string `json:"content" validate:"required,min=10,max=2000"`
	ResponderName  string `json:"responder_name" validate:"required,min=1,max=255"`
	ResponderTitle string `json:"responder_title" validate:"max=255"`
	ResponderEmail string `json:"responder_email" validate:"omitempty,email"`
}

type voteResponse struct {
	ReviewID     string `json:"review_id"`
	VoteType     string `json:"vote_type"`
	HelpfulCount int    `json:"helpful_count"`
}

// --- Handlers ---

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CreateReviewInput{
		TruckerID:             callerID(r),
		TruckerName:           callerName(r),
		CompanyID:             req.CompanyID,
		OverallRating:         req.OverallRating,
		Title:                 req.Title,
		Content:               req.Content,
		PaymentRating:         req.PaymentRating,
		CommunicationRating:   req.CommunicationRating,
		ProfessionalismRating: req.ProfessionalismRating,
		HonestyRating:         req.HonestyRating,
		DaysToPayment:         req.DaysToPayment,
		OriginCity:            req.OriginCity,
		OriginState:           req.OriginState,
		DestinationCity:       req.DestinationCity,
		DestinationState:      req.DestinationState,
		FreightType:           req.FreightType,
		IssuesReported:        req.IssuesReported,
		WouldWorkAgain:        req.WouldWorkAgain,
	}

	if req.PaymentSpeed != nil {
		speed := domain.PaymentSpeed(*req.PaymentSpeed)
		input.PaymentSpeed = &speed
	}
	if req.LoadDate != nil {
		loadDate, err := time.Parse("2006-01-02", *req.LoadDate)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("load_date must be in YYYY-MM-DD format"), h.logger)
			return
		}
		input.LoadDate = &loadDate
	}

	review, err := h.service.CreateReview(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListReviews handles GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	companyID := r.URL.Query().Get("company_id")

	reviews, total, err := h.service.ListReviews(r.Context(), companyID, params.Limit, params.Offset)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(reviews, total, params))
}

// GetReview handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("review id is required"), h.logger)
		return
	}

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// RespondToReview handles POST /api/v1/reviews/{id}/respond
func (h *ReviewHandler) RespondToReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("review id is required"), h.logger)
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	resp, err := h.service.RespondToReview(r.Context(), id, &service.RespondInput{
		Content:        req.Content,
		ResponderName:  req.ResponderName,
		ResponderTitle: req.ResponderTitle,
		ResponderEmail: req.ResponderEmail,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: resp})
}

// VoteOnReview handles POST /api/v1/reviews/{id}/vote
func (h *ReviewHandler) VoteOnReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("review id is required"), h.logger)
		return
	}

	voteType := domain.VoteType(r.URL.Query().Get("vote_type"))

	count, err := h.service.VoteOnReview(r.Context(), id, voteType)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: voteResponse{
		ReviewID:     id,
		VoteType:     string(voteType),
		HelpfulCount: count,
	}})
}

// callerID resolves the authenticated caller's ID. Authentication happens at
// the gateway; the identity arrives in trusted headers with a development
// fallback.
func callerID(r *http.Request) string {
	if v := r.Header.Get("X-User-ID"); v != "" {
		return v
	}
	return "anonymous"
}

func callerName(r *http.Request) string {
	if v := r.Header.Get("X-User-Name"); v != "" {
		return v
	}
	return "Anonymous Trucker"
}
