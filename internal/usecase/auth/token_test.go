package auth

import (
	"testing"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	svc := NewTokenService(secret, clk)
	identity := domain.Identity{ProfileID: uuid.New(), Role: domain.RoleManager}

	token, err := svc.Issue(identity, time.Hour)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
	assert.True(t, got.IsManager())

	clk.Advance(2 * time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	clk := clock.Fake(time.Now())
	svc := NewTokenService(secret, clk)
	exp := jwt.NewNumericDate(clk.Now().Add(time.Hour))

	sign := func(method jwt.SigningMethod, key any, c jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("another-secret-another-secret-00"), jwt.MapClaims{"profile_id": uuid.NewString(), "exp": exp})},
		{"none algorithm", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"profile_id": uuid.NewString(), "exp": exp})},
		{"missing expiry", sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"profile_id": uuid.NewString()})},
		{"bad profile id", sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"profile_id": "42", "exp": exp})},
		{"unknown role", sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"profile_id": uuid.NewString(), "role": "admin", "exp": exp})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestVerifyDefaultsToParticipant(t *testing.T) {
	clk := clock.Fake(time.Now())
	svc := NewTokenService(secret, clk)
	id := uuid.New()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"profile_id": id.String(),
		"exp":        clk.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ProfileID: id, Role: domain.RoleParticipant}, got)
}
