package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Coordinate bounds accepted for query points.
const (
	MinLatitude  = 0
	MaxLatitude  = 90
	MinLongitude = 0
	MaxLongitude = 180
)

// Point is a query location.
type Point struct {
	Latitude  float64 `json:"lat" validate:"gte=0,lte=90"`
	Longitude float64 `json:"lon" validate:"gte=0,lte=180"`
}

// NewPoint returns a Point for the given coordinates without range checks.
func NewPoint(lat, lon float64) Point {
	return Point{Latitude: lat, Longitude: lon}
}

// ParsePoint parses textual coordinates into a Point. Each value must be
// numeric; range is not checked. The returned error is a *ValidationError
// keyed by latField and lonField.
func ParsePoint(latField, rawLat, lonField, rawLon string) (Point, error) {
	ve := &ValidationError{Err: ErrInvalidCoordinate}

	lat, err := ParseCoordinate(rawLat)
	if err != nil {
		ve.Add(latField, "must be a number")
	}
	lon, err := ParseCoordinate(rawLon)
	if err != nil {
		ve.Add(lonField, "must be a number")
	}

	if ve.HasErrors() {
		return Point{}, ve
	}
	return NewPoint(lat, lon), nil
}

// decimalPattern matches plain decimal notation with an optional exponent.
// Hex floats, digit separators and named values such as Inf are not numbers
// here even though strconv accepts them.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseCoordinate parses a single decimal coordinate value. Surrounding
// whitespace is ignored.
func ParseCoordinate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !decimalPattern.MatchString(raw) {
		return 0, ErrInvalidCoordinate
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidCoordinate
	}
	return v, nil
}

// Validate checks that latitude is in [0,90] and longitude in [0,180].
func (p Point) Validate() error {
	return validateStruct(p)
}

// DistanceTo returns the planar Euclidean distance between p and the given
// coordinates: sqrt((lat-latitude)^2 + (lon-longitude)^2). It is not a
// great-circle distance.
func (p Point) DistanceTo(latitude, longitude float64) float64 {
	return math.Sqrt(math.Pow(p.Latitude-latitude, 2) + math.Pow(p.Longitude-longitude, 2))
}

// DistanceToPharmacy is DistanceTo for a pharmacy's coordinates.
func (p Point) DistanceToPharmacy(ph *Pharmacy) float64 {
	return p.DistanceTo(ph.Latitude, ph.Longitude)
}
