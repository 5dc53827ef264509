// Package zodiac defines the closed identifier sets the scoring tables are
// keyed on: the twelve zodiac signs and the celestial points of a birth chart.
package zodiac

import "fmt"

// Sign is one of the twelve zodiac signs.
type Sign string

const (
	Aries       Sign = "ARIES"
	Taurus      Sign = "TAURUS"
	Gemini      Sign = "GEMINI"
	Cancer      Sign = "CANCER"
	Leo         Sign = "LEO"
	Virgo       Sign = "VIRGO"
	Libra       Sign = "LIBRA"
	Scorpio     Sign = "SCORPIO"
	Sagittarius Sign = "SAGITTARIUS"
	Capricorn   Sign = "CAPRICORN"
	Aquarius    Sign = "AQUARIUS"
	Pisces      Sign = "PISCES"
)

// Signs lists all signs in ecliptic order. Iteration over sign-keyed tables
// must use this order so results are reproducible.
var Signs = []Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

var signSet = func() map[Sign]struct{} {
	m := make(map[Sign]struct{}, len(Signs))
	for _, s := range Signs {
		m[s] = struct{}{}
	}
	return m
}()

// ParseSign validates a sign identifier as it appears in table headers and
// chart payloads. Identifiers are uppercase.
func ParseSign(s string) (Sign, error) {
	sign := Sign(s)
	if _, ok := signSet[sign]; !ok {
		return "", fmt.Errorf("unknown zodiac sign %q", s)
	}
	return sign, nil
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool {
	_, ok := signSet[s]
	return ok
}

// SignFromLongitude maps an ecliptic longitude in degrees to its sign.
// Each sign spans 30 degrees starting at 0° Aries.
func SignFromLongitude(deg float64) Sign {
	d := deg
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return Signs[int(d/30)]
}

// Point identifies a celestial point in a birth chart: a classical planet,
// the ascendant, the midheaven or the north lunar node.
type Point string

const (
	Sun       Point = "Sun"
	Moon      Point = "Moon"
	Mercury   Point = "Mercury"
	Venus     Point = "Venus"
	Mars      Point = "Mars"
	Jupiter   Point = "Jupiter"
	Saturn    Point = "Saturn"
	Uranus    Point = "Uranus"
	Neptune   Point = "Neptune"
	Pluto     Point = "Pluto"
	Ascendant Point = "Ascendant"
	Midheaven Point = "MC"
	NorthNode Point = "North Node"
)

// Points lists every known celestial point in traditional order. The
// catalogue's weight table declares which of these it actually scores;
// the declared subset keeps this order.
var Points = []Point{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn,
	Uranus, Neptune, Pluto, Ascendant, Midheaven, NorthNode,
}

var pointSet = func() map[Point]struct{} {
	m := make(map[Point]struct{}, len(Points))
	for _, p := range Points {
		m[p] = struct{}{}
	}
	return m
}()

// ParsePoint validates a celestial point identifier as it appears in table
// headers and chart payloads.
func ParsePoint(s string) (Point, error) {
	p := Point(s)
	if _, ok := pointSet[p]; !ok {
		return "", fmt.Errorf("unknown celestial point %q", s)
	}
	return p, nil
}

// Valid reports whether p is a known celestial point.
func (p Point) Valid() bool {
	_, ok := pointSet[p]
	return ok
}
