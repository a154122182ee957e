package imagery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deryamemmedli/agrimonitor/entities"
)

func TestHTTPClientFetch(t *testing.T) {
	var got ndviReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ndvi", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ndvi":0.61,"observed_at":"2025-05-02T10:00:00Z","metadata":{"scene":"S2A"}}`))
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL+"/", "k", time.Second)
	at := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	obs, err := c.FetchNDVI(context.Background(), Target{FieldID: 3, Lat: 40.4, Lon: 49.8}, at)
	require.NoError(t, err)

	assert.Equal(t, uint(3), got.FieldID)
	assert.Equal(t, "2025-05-03", got.Date)
	assert.InDelta(t, 0.61, obs.Value, 1e-9)
	assert.Equal(t, entities.SourceSensor, obs.Source)
	assert.Equal(t, time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC), obs.ObservedAt)
	assert.Equal(t, "S2A", obs.Metadata["scene"])
}

func TestHTTPClientErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
		"no value": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		},
		"out of range": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ndvi":1.5}`))
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := NewHTTP(srv.URL, "", time.Second).FetchNDVI(context.Background(), Target{}, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestSyntheticIsDeterministicAndBounded(t *testing.T) {
	c := NewSynthetic()
	at := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)
	tg := Target{Lat: 40.41, Lon: 49.86}

	a, err := c.FetchNDVI(context.Background(), tg, at)
	require.NoError(t, err)
	b, err := c.FetchNDVI(context.Background(), tg, at)
	require.NoError(t, err)
	assert.Equal(t, a.Value, b.Value)
	assert.Equal(t, entities.SourceSynthetic, a.Source)

	for lat := -80.0; lat <= 80; lat += 7.3 {
		for d := 0; d < 365; d += 17 {
			v := SyntheticValue(lat, lat/2, at.AddDate(0, 0, d))
			assert.GreaterOrEqual(t, v, SyntheticMin)
			assert.LessOrEqual(t, v, SyntheticMax)
		}
	}
}
