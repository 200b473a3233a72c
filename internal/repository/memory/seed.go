package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
)

// LoadProfiles reads a JSON array of profiles from path into the store and
// returns how many were loaded. Every profile needs an id.
func (s *Store) LoadProfiles(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read profile seed: %w", err)
	}

	var profiles []*domain.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return 0, fmt.Errorf("decode profile seed %s: %w", path, err)
	}
	for i, p := range profiles {
		if p == nil || p.ID == uuid.Nil {
			return 0, fmt.Errorf("profile seed %s: entry %d has no id", path, i)
		}
	}

	for _, p := range profiles {
		s.PutProfile(p)
	}
	return len(profiles), nil
}
