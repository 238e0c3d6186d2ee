package models

import "fmt"

// Placeholder text shown for annotations that were never given a title or
// subtitle.
const (
	PlaceholderTitle    = "Title"
	PlaceholderSubtitle = "Subtitle"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies on the globe.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinate as "lat, lon" with 5 decimals (~1m).
func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f, %.5f", c.Latitude, c.Longitude)
}

// Annotation is a persisted point of interest on the map.
type Annotation struct {
	ID        string  `json:"id"`
	Title     string  `json:"title,omitempty"`
	Subtitle  string  `json:"subtitle,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the annotation's position.
func (a Annotation) Coordinate() Coordinate {
	return Coordinate{Latitude: a.Latitude, Longitude: a.Longitude}
}

// DisplayTitle returns the title, or the placeholder when it is empty.
func (a Annotation) DisplayTitle() string {
	if a.Title == "" {
		return PlaceholderTitle
	}
	return a.Title
}

// DisplaySubtitle returns the subtitle, or the placeholder when it is empty.
func (a Annotation) DisplaySubtitle() string {
	if a.Subtitle == "" {
		return PlaceholderSubtitle
	}
	return a.Subtitle
}

// PassphraseVerifier holds the Argon2id salt and derived key used to check
// an unlock passphrase. Both fields are base64 (std encoding).
type PassphraseVerifier struct {
	Salt string `json:"salt"`
	Key  string `json:"key"`
}

// Config represents the local config state
type Config struct {
	Home         *Coordinate         `json:"home,omitempty"`     // Initial map center
	PanStep      float64             `json:"pan_step,omitempty"` // Degrees moved per arrow key in the map view
	UnlockReason string              `json:"unlock_reason,omitempty"`
	Passphrase   *PassphraseVerifier `json:"passphrase,omitempty"`
}
