package types

import (
	"time"

	"github.com/astrofauna/totemeter/internal/zodiac"
)

// BirthChart maps every celestial point of one individual's chart to the
// zodiac sign it occupies. Charts are request-scoped values; they are never
// shared or mutated across requests.
type BirthChart map[zodiac.Point]zodiac.Sign

// AnalyzeRequest is the payload for the analyze endpoint.
type AnalyzeRequest struct {
	Date string  `json:"date"`
	Time string  `json:"time"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	// Name is an optional reference label, echoed back in the response.
	Name string `json:"name,omitempty"`
	// Timezone optionally overrides coordinate-based zone resolution with
	// an explicit IANA zone name.
	Timezone string `json:"timezone,omitempty"`
}

// Validate checks the request against the formats the original intake
// expects: YYYY-MM-DD date, HH:MM 24h time, coordinates in range.
func (r AnalyzeRequest) Validate() error {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errInvalidDate
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return errInvalidTime
	}
	if r.Lat < -90 || r.Lat > 90 {
		return errInvalidLat
	}
	if r.Lon < -180 || r.Lon > 180 {
		return errInvalidLon
	}
	return nil
}

type validationError string

func (e validationError) Error() string { return string(e) }

const (
	errInvalidDate validationError = "date must be in YYYY-MM-DD format"
	errInvalidTime validationError = "time must be in HH:MM format (24h)"
	errInvalidLat  validationError = "latitude must be between -90 and 90"
	errInvalidLon  validationError = "longitude must be between -180 and 180"
)
