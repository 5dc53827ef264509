package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/resilience"
	"github.com/astrofauna/totemeter/internal/types"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// positionsResponse is the ephemeris service's payload: one ecliptic
// longitude per celestial point.
type positionsResponse struct {
	Positions []pointPosition `json:"positions"`
}

type pointPosition struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
}

// HTTPProvider fetches chart positions from an ephemeris HTTP API.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	breaker *resilience.CircuitBreaker
}

// NewHTTPProvider creates a provider against the given base URL.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			SuccessThreshold: 3,
		}),
	}
}

// ComputeChart queries the ephemeris service and maps each returned
// longitude to its zodiac sign. Points with identifiers the catalogue
// universe does not know are dropped; the weight resolver ignores extras
// and rejects incomplete charts, so coverage errors surface there.
func (p *HTTPProvider) ComputeChart(ctx context.Context, utc time.Time, lat, lon float64) (types.BirthChart, error) {
	var chart types.BirthChart

	err := p.breaker.Call(func() error {
		positions, err := p.fetchPositions(ctx, utc, lat, lon)
		if err != nil {
			return err
		}
		chart = positions
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chart, nil
}

func (p *HTTPProvider) fetchPositions(ctx context.Context, utc time.Time, lat, lon float64) (types.BirthChart, error) {
	query := url.Values{}
	query.Set("utc", utc.Format(time.RFC3339))
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	endpoint := p.baseURL + "/positions?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to build ephemeris request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("ephemeris", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.NewExternalAPIError("ephemeris",
			fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var payload positionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewExternalAPIError("ephemeris", fmt.Errorf("failed to decode positions: %w", err))
	}

	chart := make(types.BirthChart, len(payload.Positions))
	for _, pos := range payload.Positions {
		point, err := zodiac.ParsePoint(pos.Name)
		if err != nil {
			continue
		}
		chart[point] = zodiac.SignFromLongitude(pos.Longitude)
	}

	return chart, nil
}

// BreakerState exposes the circuit breaker state for health reporting.
func (p *HTTPProvider) BreakerState() resilience.CircuitBreakerState {
	return p.breaker.State()
}
