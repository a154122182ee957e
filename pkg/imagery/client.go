// Package imagery is the external source of NDVI observations.
package imagery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
)

type Client interface {
	// FetchNDVI returns one observation for the target at (or near) at.
	FetchNDVI(ctx context.Context, t Target, at time.Time) (*Observation, error)
	// Name identifies the source in logs and reading metadata.
	Name() string
}

type Target struct {
	FieldID  uint            `json:"field_id"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Boundary json.RawMessage `json:"boundary,omitempty"`
}

func TargetOf(f *entities.Field) Target {
	t := Target{FieldID: f.ID, Lat: f.Latitude, Lon: f.Longitude}
	if len(f.Boundary) > 0 {
		t.Boundary = json.RawMessage(f.Boundary)
	}
	return t
}

type Observation struct {
	Value      float64                `json:"ndvi"`
	ObservedAt time.Time              `json:"observed_at"`
	Source     entities.ReadingSource `json:"source"`
	ImageURL   string                 `json:"image_url,omitempty"`
	Metadata   map[string]any         `json:"metadata,omitempty"`
}
