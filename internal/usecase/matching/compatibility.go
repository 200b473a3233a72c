package matching

import (
	"github.com/gdugdh24/party-match-backend/internal/domain"
)

// AreCompatible reports whether a and b may be paired: each side's preference
// must be the wildcard or exactly the other side's gender. The check is
// symmetric.
func AreCompatible(a, b *domain.Profile) bool {
	if a == nil || b == nil {
		return false
	}
	return wants(a.GenderPreference, b.Gender) && wants(b.GenderPreference, a.Gender)
}

func wants(preference, gender string) bool {
	if preference == domain.AnyCategory {
		return true
	}
	return gender != "" && preference == gender
}
