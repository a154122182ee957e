// Package ndvi turns vegetation-index readings into health buckets and map
// summaries. Functions in this package are pure; storage lives in the
// repository/service subpackages.
package ndvi

import (
	"math"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

type Bucket string

const (
	Unhealthy Bucket = "unhealthy"
	Poor      Bucket = "poor"
	Moderate  Bucket = "moderate"
	Healthy   Bucket = "healthy"
	NoData    Bucket = "no_data"
)

// Bucket thresholds; each range is closed below and open above.
const (
	PoorFrom     = 0.3
	ModerateFrom = 0.5
	HealthyFrom  = 0.7
)

type Classification struct {
	Bucket Bucket `json:"bucket"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

var classes = map[Bucket]Classification{
	Unhealthy: {Unhealthy, "#FF0000", "Unhealthy"},
	Poor:      {Poor, "#FFA500", "Poor"},
	Moderate:  {Moderate, "#FFFF00", "Moderate"},
	Healthy:   {Healthy, "#00FF00", "Healthy"},
	NoData:    {NoData, "#808080", "No data"},
}

// Legend lists the buckets in ascending order of health, then NoData.
func Legend() []Classification {
	return []Classification{classes[Unhealthy], classes[Poor], classes[Moderate], classes[Healthy], classes[NoData]}
}

// Classify maps a reading to its bucket. nil and NaN mean no data.
func Classify(value *float64) Classification {
	if value == nil || math.IsNaN(*value) {
		return classes[NoData]
	}
	v := *value
	switch {
	case v < PoorFrom:
		return classes[Unhealthy]
	case v < ModerateFrom:
		return classes[Poor]
	case v < HealthyFrom:
		return classes[Moderate]
	default:
		return classes[Healthy]
	}
}

// CheckValue rejects NaN and values outside [-1, 1].
func CheckValue(v float64) error {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return apperr.Validation("ndvi value %v outside [-1, 1]", v)
	}
	return nil
}

// IsActionable reports whether a field with this reading warrants a
// treatment proposal.
func IsActionable(value *float64) bool {
	b := Classify(value).Bucket
	return b == Unhealthy || b == Poor
}

// FieldSummary is one marker on the health map.
type FieldSummary struct {
	FieldID      uint                   `json:"field_id"`
	Name         string                 `json:"name"`
	OwnerID      uint                   `json:"owner_id"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	AreaHectares float64                `json:"area_hectares"`
	CropType     string                 `json:"crop_type,omitempty"`
	NDVI         *float64               `json:"ndvi_value"`
	ObservedAt   *time.Time             `json:"observed_at,omitempty"`
	DataSource   entities.ReadingSource `json:"data_source,omitempty"`
	IsRealData   bool                   `json:"is_real_data"`
	Actionable   bool                   `json:"actionable"`
	Classification
}

// Summarize joins a field with its latest reading, which may be nil.
func Summarize(f entities.Field, latest *entities.NDVIReading) FieldSummary {
	s := FieldSummary{
		FieldID:      f.ID,
		Name:         f.Name,
		OwnerID:      f.OwnerID,
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
		AreaHectares: f.AreaHectares,
		CropType:     f.CropType,
	}
	if latest != nil {
		v := latest.Value
		at := latest.ObservedAt
		s.NDVI = &v
		s.ObservedAt = &at
		s.DataSource = latest.Source
		s.IsRealData = latest.IsRealData()
	}
	s.Classification = Classify(s.NDVI)
	s.Actionable = IsActionable(s.NDVI)
	return s
}
