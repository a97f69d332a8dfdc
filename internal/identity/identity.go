// Package identity resolves the principal behind a request from an optional
// bearer credential. Resolution never blocks a request by default: a missing
// or invalid credential degrades to the anonymous identity.
package identity

import "fmt"

// Anonymous is the sentinel identity used when no credential resolves.
const Anonymous = "anonymous"

// Policy controls what happens when a credential is present but invalid.
type Policy string

const (
	// PolicyAnonymize silently degrades an invalid credential to the
	// anonymous identity instead of failing the request.
	PolicyAnonymize Policy = "anonymize"
	// PolicyReject surfaces an AuthError for an invalid credential.
	PolicyReject Policy = "reject"
)

// AuthError indicates a credential was supplied but failed verification.
// It is distinct from "no data found" in every caller-visible path.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
