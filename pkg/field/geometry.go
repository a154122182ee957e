// Package field validates field attributes; storage and access rules live
// in the repository/service subpackages.
package field

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

// Input carries the attributes of a new field.
type Input struct {
	Name         string          `json:"name"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Boundary     json.RawMessage `json:"boundary,omitempty"`
	AreaHectares float64         `json:"area_hectares"`
	CropType     string          `json:"crop_type,omitempty"`
}

func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if err := checkPoint(in.Latitude, in.Longitude); err != nil {
		return err
	}
	if in.AreaHectares <= 0 {
		return apperr.Validation("area_hectares must be positive")
	}
	return ValidateBoundary(in.Boundary)
}

// Patch is a partial update; nil members are left alone. An explicit JSON
// null boundary is indistinguishable from an absent one.
type Patch struct {
	Name         *string         `json:"name"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Boundary     json.RawMessage `json:"boundary"`
	AreaHectares *float64        `json:"area_hectares"`
	CropType     *string         `json:"crop_type"`
}

// Columns validates p against the current coordinates and returns the
// column updates.
func (p Patch) Columns(lat, lon float64) (map[string]any, error) {
	cols := map[string]any{}
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return nil, apperr.Validation("name is required")
		}
		cols["name"] = n
	}
	if p.Latitude != nil {
		lat = *p.Latitude
		cols["latitude"] = lat
	}
	if p.Longitude != nil {
		lon = *p.Longitude
		cols["longitude"] = lon
	}
	if err := checkPoint(lat, lon); err != nil {
		return nil, err
	}
	if p.AreaHectares != nil {
		if *p.AreaHectares <= 0 {
			return nil, apperr.Validation("area_hectares must be positive")
		}
		cols["area_hectares"] = *p.AreaHectares
	}
	if p.CropType != nil {
		cols["crop_type"] = strings.TrimSpace(*p.CropType)
	}
	if len(p.Boundary) > 0 && string(p.Boundary) != "null" {
		if err := ValidateBoundary(p.Boundary); err != nil {
			return nil, err
		}
		cols["boundary"] = datatypes.JSON(p.Boundary)
	}
	return cols, nil
}

func checkPoint(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperr.Validation("latitude must be within [-90, 90]")
	}
	if lon < -180 || lon > 180 {
		return apperr.Validation("longitude must be within [-180, 180]")
	}
	return nil
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ValidateBoundary accepts an empty value or a GeoJSON Polygon or
// MultiPolygon whose rings are closed and have at least four positions.
func ValidateBoundary(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return apperr.Validation("boundary is not valid JSON")
	}
	switch g.Type {
	case "Polygon":
		var poly [][][]float64
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return apperr.Validation("boundary coordinates are not a polygon")
		}
		return checkPolygon(poly)
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return apperr.Validation("boundary coordinates are not a multipolygon")
		}
		if len(multi) == 0 {
			return apperr.Validation("boundary multipolygon is empty")
		}
		for _, poly := range multi {
			if err := checkPolygon(poly); err != nil {
				return err
			}
		}
		return nil
	default:
		return apperr.Validation("boundary must be a GeoJSON Polygon or MultiPolygon, got %q", g.Type)
	}
}

func checkPolygon(rings [][][]float64) error {
	if len(rings) == 0 {
		return apperr.Validation("boundary polygon has no rings")
	}
	for _, ring := range rings {
		if len(ring) < 4 {
			return apperr.Validation("boundary ring needs at least 4 positions")
		}
		for _, pos := range ring {
			if len(pos) < 2 {
				return apperr.Validation("boundary position needs lon and lat")
			}
			if err := checkPoint(pos[1], pos[0]); err != nil {
				return err
			}
		}
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			return apperr.Validation("boundary ring is not closed")
		}
	}
	return nil
}
