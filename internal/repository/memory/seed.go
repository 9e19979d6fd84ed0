package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func speedPtr(v domain.PaymentSpeed) *domain.PaymentSpeed { return &v }

// Seed loads the development dataset: two brokers and two published reviews
// for the first one. Aggregates on the seeded companies are consistent with
// the seeded reviews.
func Seed(ctx context.Context, companies *CompanyRepository, reviews *ReviewRepository) error {
	now := time.Now().UTC()
	loadDate1 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	loadDate2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	seedCompanies := []*domain.Company{
		{
			ID:                    "company-1",
			LegalName:             "Swift Transportation",
			DBAName:               "Swift Freight",
			EntityType:            domain.EntityBroker,
			MCNumber:              "12345",
			DOTNumber:             "123456",
			Phone:                 "(555) 123-4567",
			PhysicalCity:          "Phoenix",
			PhysicalState:         "AZ",
			OverallRating:         3.0,
			PaymentRating:         2.0,
			CommunicationRating:   3.5,
			ProfessionalismRating: 2.5,
			HonestyRating:         2.5,
			ReviewCount:           2,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
		{
			ID:            "company-2",
			LegalName:     "J.B. Hunt Transport",
			EntityType:    domain.EntityBroker,
			MCNumber:      "67890",
			DOTNumber:     "789012",
			Phone:         "(555) 987-6543",
			PhysicalCity:  "Lowell",
			PhysicalState: "AR",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	seedReviews := []*domain.Review{
		{
			ID:                    "review-1",
			TruckerID:             "trucker-1",
			TruckerName:           "John Trucker",
			CompanyID:             "company-1",
			OverallRating:         4,
			Title:                 "Good broker, slow payment",
			Content:               "Overall positive experience. Payment took 45 days but they were communicative. Would work with again.",
			PaymentRating:         intPtr(3),
			CommunicationRating:   intPtr(5),
			ProfessionalismRating: intPtr(4),
			HonestyRating:         intPtr(4),
			PaymentSpeed:          speedPtr(domain.PaymentLate),
			DaysToPayment:         intPtr(45),
			LoadDate:              &loadDate1,
			WouldWorkAgain:        boolPtr(true),
			IssuesReported:        []string{},
			Status:                domain.StatusPublished,
			HelpfulCount:          5,
			CreatedAt:             now.Add(-48 * time.Hour),
		},
		{
			ID:                    "review-2",
			TruckerID:             "trucker-2",
			TruckerName:           "Mike Driver",
			CompanyID:             "company-1",
			OverallRating:         2,
			Title:                 "Rate changed after delivery",
			Content:               "Agreed on $2000, they tried to pay $1600. Had to fight for the original rate. Very unprofessional.",
			PaymentRating:         intPtr(1),
			CommunicationRating:   intPtr(2),
			ProfessionalismRating: intPtr(1),
			HonestyRating:         intPtr(1),
			PaymentSpeed:          speedPtr(domain.PaymentLate),
			DaysToPayment:         intPtr(60),
			LoadDate:              &loadDate2,
			WouldWorkAgain:        boolPtr(false),
			IssuesReported:        []string{"rate_changed", "late_payment"},
			Status:                domain.StatusPublished,
			HelpfulCount:          12,
			CreatedAt:             now.Add(-24 * time.Hour),
			CompanyResponse: &domain.CompanyResponse{
				Content:        "We apologize for the confusion. There was a miscommunication about detention charges. We have since corrected our process.",
				ResponderName:  "Jane Smith",
				ResponderTitle: "Operations Manager",
				CreatedAt:      now.Add(-12 * time.Hour),
			},
		},
	}

	for _, company := range seedCompanies {
		if err := companies.Create(ctx, company); err != nil {
			return fmt.Errorf("seed company %s: %w", company.ID, err)
		}
	}
	for _, review := range seedReviews {
		if err := reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("seed review %s: %w", review.ID, err)
		}
	}
	return nil
}
