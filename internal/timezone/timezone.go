// Package timezone converts local birth times to UTC. The zone is either
// supplied explicitly as an IANA name or resolved from the birth coordinates
// via a coarse region table covering the catalogue's historical user base.
package timezone

import (
	"fmt"
	"time"
)

// region maps a bounding box to an IANA zone name. Boxes are checked in
// order; the first hit wins.
type region struct {
	minLat, maxLat float64
	minLon, maxLon float64
	zone           string
}

var regions = []region{
	{35, 70, 3, 15, "Europe/Paris"},
	{35, 70, -10, 3, "Europe/London"},
	{35, 70, 15, 40, "Europe/Berlin"},
	{25, 50, -80, -60, "America/New_York"},
	{30, 45, -125, -115, "America/Los_Angeles"},
	{25, 50, -120, -80, "America/Los_Angeles"},
	{20, 40, 70, 90, "Asia/Kolkata"},
	{35, 45, 135, 145, "Asia/Tokyo"},
	{20, 40, 110, 130, "Asia/Shanghai"},
	{10, 20, -65, -58, "America/Guadeloupe"},
}

// Resolve returns the IANA zone name for a coordinate pair.
func Resolve(lat, lon float64) (string, error) {
	for _, r := range regions {
		if lat >= r.minLat && lat <= r.maxLat && lon >= r.minLon && lon <= r.maxLon {
			return r.zone, nil
		}
	}
	return "", fmt.Errorf("could not determine timezone for coordinates (%v, %v)", lat, lon)
}

// ToUTC converts a local birth date and time to UTC. An explicit zone name
// takes precedence over coordinate resolution.
func ToUTC(date, localTime string, lat, lon float64, zone string) (time.Time, error) {
	name := zone
	if name == "" {
		resolved, err := Resolve(lat, lon)
		if err != nil {
			return time.Time{}, err
		}
		name = resolved
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", name, err)
	}

	local, err := time.ParseInLocation("2006-01-02 15:04", date+" "+localTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse birth time: %w", err)
	}

	return local.UTC(), nil
}
