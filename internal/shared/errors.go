package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCSRFTokenMissing occurs when no token accompanies a mutating request.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFInvalidFormat occurs when the token is not valid base64url.
	ErrCSRFInvalidFormat = errors.New("csrf token format invalid")
	// ErrCSRFInvalidLength occurs when the decoded token has the wrong length.
	ErrCSRFInvalidLength = errors.New("csrf token length invalid")
	// ErrCSRFSignatureMismatch occurs when the HMAC does not verify.
	ErrCSRFSignatureMismatch = errors.New("csrf token signature mismatch")
	// ErrCSRFExpired occurs when the token is older than its expiry window.
	ErrCSRFExpired = errors.New("csrf token expired")
)
