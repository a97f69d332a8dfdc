package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/config"
)

func testResolver(policy Policy) *Resolver {
	return NewResolver(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}, policy)
}

func TestResolve_EmptyTokenIsAnonymous(t *testing.T) {
	for _, policy := range []Policy{PolicyAnonymize, PolicyReject} {
		r := testResolver(policy)
		id, err := r.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Anonymous, id)
	}
}

func TestResolve_ValidToken(t *testing.T) {
	r := testResolver(PolicyAnonymize)
	userID := uuid.New()

	token, err := r.IssueToken(userID)
	require.NoError(t, err)

	id, err := r.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), id)
}

func TestResolve_InvalidTokenDegradesUnderAnonymize(t *testing.T) {
	r := testResolver(PolicyAnonymize)

	id, err := r.Resolve("not-a-token")
	require.NoError(t, err)
	assert.Equal(t, Anonymous, id)
}

func TestResolve_InvalidTokenRejectedUnderReject(t *testing.T) {
	r := testResolver(PolicyReject)

	_, err := r.Resolve("not-a-token")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestResolveStrict_InvalidTokenAlwaysFails(t *testing.T) {
	// Reads reject a bad credential even when saves would degrade it.
	r := testResolver(PolicyAnonymize)

	_, err := r.ResolveStrict("not-a-token")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestResolveStrict_WrongSigningKey(t *testing.T) {
	other := NewResolver(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 1}, PolicyAnonymize)
	token, err := other.IssueToken(uuid.New())
	require.NoError(t, err)

	r := testResolver(PolicyAnonymize)
	_, err = r.ResolveStrict(token)
	assert.Error(t, err)
}

func TestResolveStrict_ExpiredToken(t *testing.T) {
	userID := uuid.New()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	r := testResolver(PolicyAnonymize)
	_, err = r.ResolveStrict(signed)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestResolveStrict_MissingUserIDClaim(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	r := testResolver(PolicyAnonymize)
	_, err = r.ResolveStrict(signed)
	assert.Error(t, err)
}

func TestNewResolver_DefaultsToAnonymize(t *testing.T) {
	r := NewResolver(&config.JWTConfig{Secret: "s", ExpirationHours: 1}, "")
	assert.Equal(t, PolicyAnonymize, r.Policy())
}
