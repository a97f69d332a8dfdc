package identity

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/config"
)

// Claims represents JWT claims carrying the user ID.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Resolver turns bearer tokens into identities.
type Resolver struct {
	config *config.JWTConfig
	policy Policy
}

// NewResolver creates a resolver with the given JWT configuration and
// invalid-credential policy.
func NewResolver(cfg *config.JWTConfig, policy Policy) *Resolver {
	if policy == "" {
		policy = PolicyAnonymize
	}
	return &Resolver{config: cfg, policy: policy}
}

// Policy returns the configured invalid-credential policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve maps a bearer token to an identity under the configured policy.
// An empty token is always the anonymous identity. An invalid token is
// logged and degraded to anonymous under PolicyAnonymize, or returned as an
// AuthError under PolicyReject.
func (r *Resolver) Resolve(token string) (string, error) {
	id, err := r.ResolveStrict(token)
	if err == nil {
		return id, nil
	}
	if r.policy == PolicyReject {
		return "", err
	}
	log.Printf("[auth] credential verification failed, using anonymous session: %v", err)
	return Anonymous, nil
}

// ResolveStrict maps a bearer token to an identity, returning an AuthError
// whenever a token is present but fails verification, regardless of policy.
// An empty token still resolves to anonymous: absence is not an error.
func (r *Resolver) ResolveStrict(token string) (string, error) {
	if token == "" {
		return Anonymous, nil
	}
	claims, err := r.validateToken(token)
	if err != nil {
		return "", &AuthError{Message: "invalid authentication token", Cause: err}
	}
	return claims.UserID.String(), nil
}

// IssueToken generates a signed token for the given user ID. Used by tests
// and tooling; credential issuance itself is out of scope for this service.
func (r *Resolver) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(r.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(r.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (r *Resolver) validateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(r.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token has no user ID")
	}
	return claims, nil
}
