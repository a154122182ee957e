package entities

import (
	"time"

	"gorm.io/gorm"
)

type TreatmentStatus string

const (
	TreatmentScheduled  TreatmentStatus = "scheduled"
	TreatmentInProgress TreatmentStatus = "in_progress"
	TreatmentCompleted  TreatmentStatus = "completed"
	TreatmentVerified   TreatmentStatus = "verified"
)

// EffectiveImprovementPct is the improvement above which a treatment
// counts as effective.
const EffectiveImprovementPct = 5.0

type Treatment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RequestID    uint            `gorm:"uniqueIndex;not null" json:"request_id"`
	FieldID      uint            `gorm:"index;not null" json:"field_id"`
	AgronomistID uint            `gorm:"index;not null" json:"agronomist_id"`
	FarmerID     uint            `gorm:"index;not null" json:"farmer_id"`
	Status       TreatmentStatus `gorm:"index;not null" json:"status"`

	BeforeNDVI     float64  `gorm:"column:before_ndvi_value;not null" json:"before_ndvi_value"`
	AfterNDVI      *float64 `gorm:"column:after_ndvi_value" json:"after_ndvi_value"`
	ImprovementPct *float64 `gorm:"column:improvement_percentage" json:"improvement_percentage"`

	TreatmentType string `json:"treatment_type,omitempty"` // spraying|fertilization|irrigation|...
	Notes         string `json:"notes,omitempty"`

	ScheduledDate     *time.Time `json:"scheduled_date,omitempty"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_date,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	FarmerConfirmedAt *time.Time `json:"farmer_confirmed_at,omitempty"`

	AgronomistConfirmed bool `gorm:"not null;default:false" json:"agronomist_confirmed"`
	FarmerConfirmed     bool `gorm:"not null;default:false" json:"farmer_confirmed"`

	// derived, not persisted
	Closed    bool  `gorm:"-" json:"closed"`
	Effective *bool `gorm:"-" json:"effective,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Treatment) TableName() string { return "treatments" }

// IsClosed reports the terminal state: verified and confirmed by both
// parties. It is not a stored status.
func (t *Treatment) IsClosed() bool {
	return t.Status == TreatmentVerified && t.AgronomistConfirmed && t.FarmerConfirmed
}

func (t *Treatment) AfterFind(tx *gorm.DB) error {
	t.Derive()
	return nil
}

// Derive fills the non-persisted fields.
func (t *Treatment) Derive() {
	t.Closed = t.IsClosed()
	t.Effective = nil
	if t.ImprovementPct != nil {
		eff := *t.ImprovementPct > EffectiveImprovementPct
		t.Effective = &eff
	}
}
