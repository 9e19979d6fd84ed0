package domain

import "time"

// ReviewStatus is the moderation state of a review. Moderation is not
// implemented; every review is published on creation.
type ReviewStatus string

const (
	StatusDraft     ReviewStatus = "draft"
	StatusPending   ReviewStatus = "pending"
	StatusPublished ReviewStatus = "published"
	StatusRejected  ReviewStatus = "rejected"
)

// PaymentSpeed classifies how quickly a broker paid for a load.
type PaymentSpeed string

const (
	PaymentOnTime    PaymentSpeed = "on_time"
	PaymentLate      PaymentSpeed = "late"
	PaymentNeverPaid PaymentSpeed = "never_paid"
)

// VoteType is a helpfulness vote on a review.
type VoteType string

const (
	VoteHelpful    VoteType = "helpful"
	VoteNotHelpful VoteType = "not_helpful"
)

// Valid reports whether the vote type is one of the accepted values.
func (v VoteType) Valid() bool {
	return v == VoteHelpful || v == VoteNotHelpful
}

// Review is a trucker's rating of a broker or shipper. Reviews are never
// deleted; after creation the only mutations are attaching a company response
// and incrementing the helpful counter.
type Review struct {
	ID          string `json:"id"`
	TruckerID   string `json:"trucker_id"`
	TruckerName string `json:"trucker_name"`
	CompanyID   string `json:"company_id"`

	OverallRating int    `json:"overall_rating"`
	Title         string `json:"title"`
	Content       string `json:"content"`

	PaymentRating         *int          `json:"payment_rating,omitempty"`
	CommunicationRating   *int          `json:"communication_rating,omitempty"`
	ProfessionalismRating *int          `json:"professionalism_rating,omitempty"`
	HonestyRating         *int          `json:"honesty_rating,omitempty"`
	PaymentSpeed          *PaymentSpeed `json:"payment_speed,omitempty"`
	DaysToPayment         *int          `json:"days_to_payment,omitempty"`

	LoadDate         *time.Time `json:"load_date,omitempty"`
	OriginCity       string     `json:"origin_city,omitempty"`
	OriginState      string     `json:"origin_state,omitempty"`
	DestinationCity  string     `json:"destination_city,omitempty"`
	DestinationState string     `json:"destination_state,omitempty"`
	FreightType      string     `json:"freight_type,omitempty"`

	IssuesReported []string `json:"issues_reported"`
	WouldWorkAgain *bool    `json:"would_work_again,omitempty"`

	Status       ReviewStatus `json:"status"`
	HelpfulCount int          `json:"helpful_count"`
	CreatedAt    time.Time    `json:"created_at"`

	// Seq is the process-wide insertion sequence, used to break created_at
	// ties so listing order is stable.
	Seq int64 `json:"-"`

	CompanyResponse *CompanyResponse `json:"company_response,omitempty"`
}

// CompanyResponse is a company's single text-only reply to a review. The type
// deliberately has no rating field: a company cannot rate its own review.
type CompanyResponse struct {
	Content        string    `json:"content"`
	ResponderName  string    `json:"responder_name"`
	ResponderTitle string    `json:"responder_title,omitempty"`
	ResponderEmail string    `json:"responder_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
