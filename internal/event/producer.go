package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	pkgkafka "github.com/SFitz911/Carrier-Broker-Saas/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated   = "carrierboard.review.created"
	TopicReviewResponded = "carrierboard.review.responded"
)

// Aggregate type constant. Events are keyed by company so all activity for a
// company lands on one partition.
const AggregateTypeCompany = "company"

// Source identifier for events originating from this service.
const SourceCarrierBoard = "carrierboard-api"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID      string  `json:"review_id"`
	CompanyID     string  `json:"company_id"`
	TruckerID     string  `json:"trucker_id"`
	OverallRating int     `json:"overall_rating"`
	CompanyRating float64 `json:"company_rating"`
	ReviewCount   int     `json:"review_count"`
}

// ReviewRespondedData is the payload for a review.responded event.
type ReviewRespondedData struct {
	ReviewID      string `json:"review_id"`
	CompanyID     string `json:"company_id"`
	ResponderName string `json:"responder_name"`
}

// Producer publishes review domain events to Kafka. A nil Producer is valid
// and drops every event, so callers never need to branch on whether Kafka is
// configured.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review, agg domain.Aggregates) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	data := ReviewCreatedData{
		ReviewID:      review.ID,
		CompanyID:     review.CompanyID,
		TruckerID:     review.TruckerID,
		OverallRating: review.OverallRating,
		CompanyRating: agg.Overall,
		ReviewCount:   agg.ReviewCount,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.CompanyID, AggregateTypeCompany, SourceCarrierBoard, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("company_id", review.CompanyID),
	)

	return nil
}

// PublishReviewResponded publishes a review.responded event.
func (p *Producer) PublishReviewResponded(ctx context.Context, review *domain.Review, resp *domain.CompanyResponse) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	data := ReviewRespondedData{
		ReviewID:      review.ID,
		CompanyID:     review.CompanyID,
		ResponderName: resp.ResponderName,
	}

	event, err := pkgkafka.NewEvent(TopicReviewResponded, review.CompanyID, AggregateTypeCompany, SourceCarrierBoard, data)
	if err != nil {
		return fmt.Errorf("create review.responded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewResponded, event); err != nil {
		return fmt.Errorf("publish review.responded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.responded event",
		slog.String("review_id", review.ID),
		slog.String("company_id", review.CompanyID),
	)

	return nil
}
