package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Request is a treatment proposal from an agronomist about one field.
// BeforeNDVI is captured when the request is created and never refreshed.
type Request struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AgronomistID  uint            `gorm:"index;not null" json:"agronomist_id"`
	FieldID       uint            `gorm:"index;not null" json:"field_id"`
	FarmerID      uint            `gorm:"index;not null" json:"farmer_id"`
	Status        RequestStatus   `gorm:"index;not null" json:"status"`
	Message       string          `gorm:"not null" json:"message"`
	ProposedPrice decimal.Decimal `gorm:"type:numeric;not null" json:"proposed_price"`
	HealthIssue   string          `json:"health_issue_description,omitempty"`
	BeforeNDVI    float64         `gorm:"column:before_ndvi_value;not null" json:"before_ndvi_value"`
	NDVIEstimated bool            `json:"ndvi_estimated"`
	AcceptedAt    *time.Time      `json:"accepted_at,omitempty"`
	DecidedAt     *time.Time      `json:"decided_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Request) TableName() string { return "treatment_requests" }
