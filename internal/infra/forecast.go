package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ForecastResponse is returned by the demand-forecast sidecar.
type ForecastResponse struct {
	ProductID   string  `json:"product_id"`
	DemandLevel string  `json:"demand_level"` // "low" | "steady" | "high"
	Confidence  float64 `json:"confidence"`
}

// ForecastClient is an HTTP client for the demand-forecast sidecar. All calls
// go through a circuit breaker so a forecast outage fast-fails instead of
// stalling every pricing request behind timeouts.
type ForecastClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewForecastClient(baseURL string, cb *CircuitBreaker) *ForecastClient {
	return &ForecastClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cb:         cb,
	}
}

// Demand fetches the demand level for one product. Returns "" with no error
// when the sidecar is not configured.
func (c *ForecastClient) Demand(ctx context.Context, productID, category string) (string, error) {
	if c.baseURL == "" {
		return "", nil
	}

	var level string
	err := c.cb.Execute(func() error {
		q := url.Values{}
		q.Set("product_id", productID)
		q.Set("category", category)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/v1/demand?"+q.Encode(), nil)
		if err != nil {
			return fmt.Errorf("forecast: create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("forecast: sidecar unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("forecast: sidecar returned %d", resp.StatusCode)
		}

		var result ForecastResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("forecast: decode response: %w", err)
		}
		level = result.DemandLevel
		return nil
	})
	return level, err
}
