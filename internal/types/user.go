package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is an account. The password hash never leaves the repository
// layer; it is excluded from JSON.
type UserProfile struct {
	ID             uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateProfileParams carries the mutable profile fields; nil means "leave
// unchanged".
type UpdateProfileParams struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// NotificationSettings is a fixed boolean flag per alert kind. The original
// free-form map keyed by unchecked strings was replaced with this enumerated
// shape, validated at the boundary.
type NotificationSettings struct {
	Storm              bool `json:"storm"`
	Flood              bool `json:"flood"`
	ExtremeTemperature bool `json:"extreme_temperature"`
	Fog                bool `json:"fog"`
	GoodWeather        bool `json:"good_weather"`
}

// Enabled reports whether notifications for the given alert kind are on.
func (s NotificationSettings) Enabled(kind AlertKind) bool {
	switch kind {
	case AlertStorm:
		return s.Storm
	case AlertFlood:
		return s.Flood
	case AlertExtremeTemp:
		return s.ExtremeTemperature
	case AlertFog:
		return s.Fog
	case AlertGoodWeather:
		return s.GoodWeather
	}
	return false
}
