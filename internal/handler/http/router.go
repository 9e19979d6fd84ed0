package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/service"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/verify"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/health"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/middleware"
)

// RouterConfig carries the router-level knobs.
type RouterConfig struct {
	CORS middleware.CORSConfig

	// RateLimitRPS and RateLimitBurst bound per-client request rates; a
	// non-positive RPS disables limiting.
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	companyService *service.CompanyService,
	verifier verify.Verifier,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("carrierboard"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	reviewHandler := NewReviewHandler(reviewService, logger)
	companyHandler := NewCompanyHandler(companyService, logger)
	verifyHandler := NewVerifyHandler(verifier, logger)

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Post("/", reviewHandler.CreateReview)
		r.Get("/", reviewHandler.ListReviews)
		r.Get("/{id}", reviewHandler.GetReview)
		r.Post("/{id}/respond", reviewHandler.RespondToReview)
		r.Post("/{id}/vote", reviewHandler.VoteOnReview)
	})

	r.Route("/api/v1/companies", func(r chi.Router) {
		r.Get("/", companyHandler.SearchCompanies)
		r.Get("/{id}", companyHandler.GetCompany)
	})

	// FMCSA lookups change rarely; let clients cache them briefly.
	r.Route("/api/v1/verify", func(r chi.Router) {
		r.Use(middleware.CacheControl(300))

		r.Get("/mc/{number}", verifyHandler.VerifyMC)
		r.Get("/dot/{number}", verifyHandler.VerifyDOT)
		r.Get("/broker/{number}", verifyHandler.VerifyBroker)
	})

	return r
}
