package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
)

type httpClient struct {
	endpoint string
	key      string
	httpc    *http.Client
}

// NewHTTP calls POST {endpoint}/ndvi on an imagery processor.
func NewHTTP(endpoint, key string, timeout time.Duration) Client {
	return &httpClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		httpc:    &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Name() string { return "http" }

type ndviReq struct {
	Target
	Date string `json:"date"`
}

type ndviResp struct {
	NDVI       *float64       `json:"ndvi"`
	ObservedAt time.Time      `json:"observed_at"`
	ImageURL   string         `json:"image_url"`
	Metadata   map[string]any `json:"metadata"`
}

func (c *httpClient) FetchNDVI(ctx context.Context, t Target, at time.Time) (*Observation, error) {
	body, err := json.Marshal(ndviReq{Target: t, Date: at.UTC().Format(time.DateOnly)})
	if err != nil {
		return nil, fmt.Errorf("marshal imagery req: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/ndvi", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagery call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("imagery non-2xx: %s, body: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var out ndviResp
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode imagery resp: %w", err)
	}
	if out.NDVI == nil {
		return nil, fmt.Errorf("imagery resp has no ndvi value")
	}
	if *out.NDVI < -1 || *out.NDVI > 1 {
		return nil, fmt.Errorf("imagery ndvi %v out of range", *out.NDVI)
	}
	obs := &Observation{
		Value:      *out.NDVI,
		ObservedAt: out.ObservedAt,
		Source:     entities.SourceSensor,
		ImageURL:   out.ImageURL,
		Metadata:   out.Metadata,
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = at
	}
	return obs, nil
}
