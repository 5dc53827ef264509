// Package ephemeris supplies birth charts. The astronomical math itself
// lives in an external ephemeris service; this package is the client-side
// plumbing that turns its longitude payload into typed point placements.
package ephemeris

import (
	"context"
	"time"

	"github.com/astrofauna/totemeter/internal/types"
)

// Provider computes the chart for a birth moment. Implementations must
// cover every celestial point the catalogue scores, or downstream weight
// resolution fails the request.
type Provider interface {
	// ComputeChart returns the point placements for the given UTC birth
	// moment and coordinates.
	ComputeChart(ctx context.Context, utc time.Time, lat, lon float64) (types.BirthChart, error)
}
