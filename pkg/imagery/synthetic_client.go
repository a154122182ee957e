package imagery

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
)

// Synthetic output range.
const (
	SyntheticMin = 0.2
	SyntheticMax = 0.9
)

type synthetic struct{}

// NewSynthetic estimates NDVI from location and day of year. The same
// target and date always give the same value.
func NewSynthetic() Client { return synthetic{} }

func (synthetic) Name() string { return "synthetic" }

func (synthetic) FetchNDVI(_ context.Context, t Target, at time.Time) (*Observation, error) {
	v := SyntheticValue(t.Lat, t.Lon, at)
	return &Observation{
		Value:      v,
		ObservedAt: at,
		Source:     entities.SourceSynthetic,
		Metadata: map[string]any{
			"estimator":   "location_season",
			"coordinates": map[string]float64{"lat": t.Lat, "lon": t.Lon},
		},
	}, nil
}

// SyntheticValue is a base in [0.5, 0.7) chosen by location plus a yearly
// sine of amplitude 0.1, clamped to [SyntheticMin, SyntheticMax].
func SyntheticValue(lat, lon float64, at time.Time) float64 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%.5f_%.5f", lat, lon)
	base := 0.5 + float64(h.Sum32()%100)/500
	season := 0.1 * math.Sin(float64(at.YearDay())/365*2*math.Pi)
	return math.Min(SyntheticMax, math.Max(SyntheticMin, base+season))
}
