package domain

import "errors"

var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
)

// DenyReason explains why the auth gate refused a request.
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyMissingHeader
	DenyMalformedHeader
	DenyInvalidOrExpiredToken
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "none"
	case DenyMissingHeader:
		return "missing_header"
	case DenyMalformedHeader:
		return "malformed_header"
	case DenyInvalidOrExpiredToken:
		return "invalid_or_expired_token"
	default:
		return "unknown"
	}
}

// AuthResult is either Authenticated(Identity) or Denied(Reason).
// The zero value is a denial.
type AuthResult struct {
	Identity string
	Reason   DenyReason
	ok       bool
}

func Authenticated(identity string) AuthResult {
	return AuthResult{Identity: identity, ok: true}
}

func Denied(reason DenyReason) AuthResult {
	return AuthResult{Reason: reason}
}

// Allowed reports whether the request may proceed.
func (r AuthResult) Allowed() bool {
	return r.ok && r.Identity != ""
}
