// Package middleware provides HTTP middleware for the resume builder API.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// credentialKey is the context key for the extracted bearer credential.
const credentialKey ContextKey = "credential"

// WithCredential extracts the bearer token from the Authorization header and
// stores it in the request context. A missing or non-bearer header stores
// the empty credential; verification is left to the identity resolver, since
// routes differ on whether an invalid credential is fatal.
func WithCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), credentialKey, bearerToken(r.Header.Get("Authorization")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Credential returns the bearer credential extracted by WithCredential, or
// the empty string.
func Credential(r *http.Request) string {
	token, _ := r.Context().Value(credentialKey).(string)
	return token
}

// bearerToken parses an Authorization header value, accepting a
// case-insensitive "Bearer" scheme.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
