package ndvi

import (
	"encoding/json"
	"time"
)

// RecordInput is a reading uploaded by a field owner. Source defaults to
// manual; ObservedAt defaults to now.
type RecordInput struct {
	Value      *float64        `json:"ndvi_value"`
	ObservedAt *time.Time      `json:"observed_at"`
	Source     string          `json:"source"`
	ImageURL   string          `json:"image_url"`
	Metadata   json.RawMessage `json:"metadata"`
}
