package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnyCategory is the desired-category wildcard.
const AnyCategory = "any"

// Profile is owned by the profile-editing service; this module only reads it.
type Profile struct {
	ID               uuid.UUID `json:"id" db:"id"`
	DisplayName      string    `json:"display_name" db:"display_name"`
	Gender           string    `json:"gender" db:"gender"`
	GenderPreference string    `json:"gender_preference" db:"gender_preference"`
	Photos           []string  `json:"photos" db:"photos"`
	Bio              *string   `json:"bio" db:"bio"`
	Interests        []string  `json:"interests" db:"interests"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Profile) BioText() string {
	if p.Bio == nil {
		return ""
	}
	return *p.Bio
}
