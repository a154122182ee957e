package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deryamemmedli/agrimonitor/pkg/testutil"
)

func TestHealth(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewHealthCtrl(db, "synthetic")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  map[string]bool `json:"status"`
		Imagery string          `json:"imagery_source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Status["ok"])
	assert.Equal(t, "synthetic", body.Imagery)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	rec = httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
