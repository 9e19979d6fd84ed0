package domain

import "time"

// EntityType classifies a company in the FMCSA registry sense.
type EntityType string

const (
	EntityBroker           EntityType = "BROKER"
	EntityShipper          EntityType = "SHIPPER"
	EntityCarrier          EntityType = "CARRIER"
	EntityFreightForwarder EntityType = "FREIGHT_FORWARDER"
)

// Reviewable reports whether companies of this entity type may be reviewed.
// Truckers rate brokers and shippers; carriers are never review targets.
func (t EntityType) Reviewable() bool {
	return t == EntityBroker || t == EntityShipper
}

// Company is a broker, shipper or carrier listed in the directory.
// Aggregate rating fields are maintained by the review service and must not
// be written by anything else.
type Company struct {
	ID         string     `json:"id"`
	LegalName  string     `json:"legal_name"`
	DBAName    string     `json:"dba_name,omitempty"`
	EntityType EntityType `json:"entity_type"`

	MCNumber  string `json:"mc_number,omitempty"`
	DOTNumber string `json:"dot_number,omitempty"`

	Phone         string `json:"phone,omitempty"`
	PhysicalCity  string `json:"physical_city,omitempty"`
	PhysicalState string `json:"physical_state,omitempty"`

	OverallRating         float64 `json:"overall_rating"`
	PaymentRating         float64 `json:"payment_rating"`
	CommunicationRating   float64 `json:"communication_rating"`
	ProfessionalismRating float64 `json:"professionalism_rating"`
	HonestyRating         float64 `json:"honesty_rating"`
	ReviewCount           int     `json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Aggregates holds the recomputed rating means for a company.
type Aggregates struct {
	Overall         float64
	Payment         float64
	Communication   float64
	Professionalism float64
	Honesty         float64
	ReviewCount     int
}

// RatingDistribution buckets reviews by integer star value.
type RatingDistribution struct {
	FiveStar  int `json:"5_star"`
	FourStar  int `json:"4_star"`
	ThreeStar int `json:"3_star"`
	TwoStar   int `json:"2_star"`
	OneStar   int `json:"1_star"`
}

// CompanyStats summarizes a company's published reviews for the profile page.
type CompanyStats struct {
	TotalReviews          int                `json:"total_reviews"`
	AverageRating         float64            `json:"average_rating"`
	RatingDistribution    RatingDistribution `json:"rating_distribution"`
	WouldWorkAgainPercent float64            `json:"would_work_again_percent"`
	// CommonIssues is reserved for tag frequency analysis; always empty for now.
	CommonIssues []string `json:"common_issues"`
}

// CompanyProfile bundles a company with its review statistics.
type CompanyProfile struct {
	Company *Company     `json:"company"`
	Stats   CompanyStats `json:"stats"`
}
