package auth

import (
	"fmt"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService signs and verifies HS256 access tokens. Tokens are issued by
// the account service; Issue exists for tooling and tests.
type TokenService struct {
	secret []byte
	clock  clock.Clock
}

func NewTokenService(secret string, clk clock.Clock) *TokenService {
	return &TokenService{secret: []byte(secret), clock: clk}
}

type claims struct {
	ProfileID string `json:"profile_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (s *TokenService) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ProfileID: identity.ProfileID.String(),
		Role:      string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ProfileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify resolves a token to the caller's identity. A missing role means a
// participant.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	profileID, err := uuid.Parse(c.ProfileID)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	role := domain.Role(c.Role)
	if role == "" {
		role = domain.RoleParticipant
	}
	if !role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{ProfileID: profileID, Role: role}, nil
}
