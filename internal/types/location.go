package types

import "github.com/google/uuid"

// Location is a geographic point weather data is attached to. Identity is the
// (latitude, longitude) pair; two requests resolving to the same coordinates
// always converge on the same row.
type Location struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CountryCode    string    `json:"country_code"`
	IsAutoDetected bool      `json:"is_auto_detected"`
}

// LocationInput is the client-supplied location selector: either a free-text
// name or an explicit coordinate pair.
type LocationInput struct {
	Name      *string  `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Validate checks that at least one usable form is present.
func (in LocationInput) Validate() error {
	if in.Latitude != nil && in.Longitude != nil {
		return nil
	}
	if in.Name != nil && *in.Name != "" {
		return nil
	}
	return ErrBadRequest
}
