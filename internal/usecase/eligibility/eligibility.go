// Package eligibility decides which profiles count toward matching and when an
// event is ready for it.
package eligibility

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/party-match-backend/internal/domain"
)

const (
	// MinParticipants is the smallest opted-in pool that gets matched.
	MinParticipants = 6
	// MinBioLength is counted in characters, not bytes.
	MinBioLength = 20
)

// IsProfileComplete reports whether every field required for enrollment and
// matching is filled in.
func IsProfileComplete(p *domain.Profile) bool {
	if p == nil {
		return false
	}
	if strings.TrimSpace(p.DisplayName) == "" ||
		strings.TrimSpace(p.Gender) == "" ||
		strings.TrimSpace(p.GenderPreference) == "" {
		return false
	}
	if !hasPhoto(p.Photos) {
		return false
	}
	return utf8.RuneCountInString(p.BioText()) >= MinBioLength
}

func hasPhoto(photos []string) bool {
	for _, photo := range photos {
		if strings.TrimSpace(photo) != "" {
			return true
		}
	}
	return false
}

// CanRunMatching reports whether matching may run for event at now given the
// number of matchable enrollments.
func CanRunMatching(event *domain.Event, enrollmentCount int, now time.Time) bool {
	if event == nil || event.MatchingStarted {
		return false
	}
	if enrollmentCount < MinParticipants {
		return false
	}
	return !now.Before(event.MatchingStartsAt)
}
