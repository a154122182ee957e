package entities

import (
	"time"

	"gorm.io/datatypes"
)

type ReadingSource string

const (
	SourceSensor    ReadingSource = "sensor"    // real imagery
	SourceSynthetic ReadingSource = "synthetic" // location/season estimate
	SourceManual    ReadingSource = "manual"    // uploaded by the field owner
)

func (s ReadingSource) Valid() bool {
	switch s {
	case SourceSensor, SourceSynthetic, SourceManual:
		return true
	}
	return false
}

// NDVIReading is one observation in a field's time series. Rows are never
// updated after insert.
type NDVIReading struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FieldID    uint           `gorm:"not null;index:idx_reading_field_time,priority:1" json:"field_id"`
	Value      float64        `gorm:"column:ndvi_value;not null" json:"ndvi_value"`
	Source     ReadingSource  `gorm:"not null" json:"source"`
	ObservedAt time.Time      `gorm:"not null;index:idx_reading_field_time,priority:2" json:"observed_at"`
	ImageURL   string         `json:"image_url,omitempty"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (NDVIReading) TableName() string { return "ndvi_readings" }

// IsRealData reports whether the value came from actual imagery.
func (r NDVIReading) IsRealData() bool { return r.Source == SourceSensor }
