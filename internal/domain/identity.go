package domain

import "github.com/google/uuid"

type Role string

const (
	RoleParticipant Role = "participant"
	RoleManager     Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleParticipant || r == RoleManager
}

// Identity is the caller resolved from an access token.
type Identity struct {
	ProfileID uuid.UUID
	Role      Role
}

func (i Identity) IsManager() bool {
	return i.Role == RoleManager
}
