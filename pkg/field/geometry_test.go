package field

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

const square = `{"type":"Polygon","coordinates":[[[49.8,40.4],[49.9,40.4],[49.9,40.5],[49.8,40.4]]]}`

func TestValidateBoundary(t *testing.T) {
	ok := []string{
		"",
		"null",
		square,
		`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[2,2],[3,2],[3,3],[2,2]]]]}`,
	}
	for _, raw := range ok {
		assert.NoError(t, ValidateBoundary(json.RawMessage(raw)), raw)
	}

	bad := []string{
		`{"type":"Point","coordinates":[1,2]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,0]]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}`,
		`{"type":"Polygon","coordinates":[[[0,95],[1,0],[1,1],[0,95]]]}`,
		`{"type":"MultiPolygon","coordinates":[]}`,
		`[1,2`,
	}
	for _, raw := range bad {
		assert.ErrorIs(t, ValidateBoundary(json.RawMessage(raw)), apperr.ErrValidation, raw)
	}
}

func TestInputValidate(t *testing.T) {
	in := Input{Name: " North ", Latitude: 40.4, Longitude: 49.8, AreaHectares: 2, Boundary: json.RawMessage(square)}
	assert.NoError(t, in.Validate())
	assert.Equal(t, "North", in.Name)

	for _, mut := range []func(*Input){
		func(i *Input) { i.Name = "  " },
		func(i *Input) { i.AreaHectares = 0 },
		func(i *Input) { i.Latitude = -91 },
		func(i *Input) { i.Longitude = 181 },
	} {
		c := in
		mut(&c)
		assert.ErrorIs(t, c.Validate(), apperr.ErrValidation)
	}
}

func TestPatchColumns(t *testing.T) {
	area := -1.0
	_, err := Patch{AreaHectares: &area}.Columns(0, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	lat := 91.0
	_, err = Patch{Latitude: &lat}.Columns(0, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	name := "South"
	cols, err := Patch{Name: &name}.Columns(10, 10)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "South"}, cols)
}
