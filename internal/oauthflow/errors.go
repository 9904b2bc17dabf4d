package oauthflow

import "fmt"

// Reason identifies which step of the authorization flow failed.
type Reason string

const (
	ReasonMissingCredentials Reason = "missing_credentials"
	ReasonDenied             Reason = "authorization_denied"
	ReasonStateMismatch      Reason = "state_mismatch"
	ReasonTimeout            Reason = "timeout"
	ReasonListener           Reason = "listener_failed"
	ReasonExchangeFailed     Reason = "token_exchange_failed"
	ReasonIdentityFailed     Reason = "identity_fetch_failed"
)

// AuthError represents a failed authorization flow. StatusCode and Body are
// populated for failures of outbound HTTP calls so the cause is diagnosable
// from the log alone.
type AuthError struct {
	Reason     Reason
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func NewAuthError(reason Reason, message string) *AuthError {
	return &AuthError{
		Reason:  reason,
		Message: message,
	}
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth %s: %s (status %d: %s)", e.Reason, e.Message, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("auth %s: %s", e.Reason, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) WithCause(err error) *AuthError {
	e.Err = err
	return e
}

func (e *AuthError) WithResponse(statusCode int, body string) *AuthError {
	e.StatusCode = statusCode
	e.Body = body
	return e
}

// ReasonOf extracts the flow failure reason from an error chain, or "".
func ReasonOf(err error) Reason {
	if ae, ok := err.(*AuthError); ok {
		return ae.Reason
	}
	return ""
}
