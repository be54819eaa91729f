package authorizer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an authorization attempt failed
type ErrorKind string

const (
	KindMissingCredential   ErrorKind = "missing_credential"
	KindMalformedCredential ErrorKind = "malformed_credential"
	KindMalformedToken      ErrorKind = "malformed_token"
	KindKeySetUnavailable   ErrorKind = "keyset_unavailable"
	KindKeyNotFound         ErrorKind = "key_not_found"
	KindCertificateBuild    ErrorKind = "certificate_build_error"
	KindInvalidSignature    ErrorKind = "invalid_signature"
	KindTokenExpired        ErrorKind = "token_expired"
	KindInvalidClaims       ErrorKind = "invalid_claims"
	KindInternal            ErrorKind = "internal"
)

// Error is a classified authorization failure
type Error struct {
	Kind ErrorKind
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrKeyNotFound) matches any key-not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	// ErrMissingCredential is returned when the authorization header is absent or empty
	ErrMissingCredential = &Error{Kind: KindMissingCredential}

	// ErrMalformedCredential is returned when the header does not use the bearer scheme
	ErrMalformedCredential = &Error{Kind: KindMalformedCredential}

	// ErrMalformedToken is returned when the token is not a decodable compact JWS
	ErrMalformedToken = &Error{Kind: KindMalformedToken}

	// ErrKeySetUnavailable is returned when the key set cannot be fetched or parsed
	ErrKeySetUnavailable = &Error{Kind: KindKeySetUnavailable}

	// ErrKeyNotFound is returned when no key set entry matches the token kid
	ErrKeyNotFound = &Error{Kind: KindKeyNotFound}

	// ErrCertificateBuild is returned when the leaf certificate cannot be reconstructed
	ErrCertificateBuild = &Error{Kind: KindCertificateBuild}

	// ErrInvalidSignature is returned when the signature or algorithm is rejected
	ErrInvalidSignature = &Error{Kind: KindInvalidSignature}

	// ErrTokenExpired is returned when exp or nbf puts the token outside its validity window
	ErrTokenExpired = &Error{Kind: KindTokenExpired}

	// ErrInvalidClaims is returned when sub, iss or aud do not satisfy the verifier
	ErrInvalidClaims = &Error{Kind: KindInvalidClaims}
)

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors
func KindOf(err error) ErrorKind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindInternal
}
