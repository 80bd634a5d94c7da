package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"net/http"
	"time"
)

const (
	// CSRFFormField is the form field name carrying the CSRF token.
	CSRFFormField = "_csrf_token"

	csrfTimestampLen = 8
	csrfNonceLen     = 16
	csrfDigestLen    = sha256.Size
	csrfTokenLen     = csrfTimestampLen + csrfNonceLen + csrfDigestLen
)

// CSRFManager issues and verifies stateless CSRF tokens. A token is
// base64url(timestamp ∥ nonce ∥ HMAC-SHA256(secret, timestamp ∥ nonce));
// validity is a pure function of the bytes, the secret and the clock, so
// nothing is stored server-side.
type CSRFManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	headerName string
	now        func() time.Time
}

// NewCSRFManager returns a CSRFManager using the provided secret key.
func NewCSRFManager(secret, cookieName, headerName string, ttl time.Duration) *CSRFManager {
	return &CSRFManager{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		headerName: headerName,
		now:        time.Now,
	}
}

// Issue generates a fresh token.
func (m *CSRFManager) Issue() string {
	payload := make([]byte, csrfTimestampLen+csrfNonceLen)
	binary.BigEndian.PutUint64(payload, uint64(m.now().UTC().Unix()))
	_, _ = rand.Read(payload[csrfTimestampLen:])

	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(payload))
}

// Validate checks the token structure, signature and age. Each failure mode
// maps to a distinct sentinel error so callers can audit and localize it.
func (m *CSRFManager) Validate(token string) error {
	if token == "" {
		return ErrCSRFTokenMissing
	}
	raw, err := decodeCSRF(token)
	if err != nil {
		return ErrCSRFInvalidFormat
	}
	if len(raw) != csrfTokenLen {
		return ErrCSRFInvalidLength
	}

	payload := raw[:csrfTimestampLen+csrfNonceLen]
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write(payload)
	if !hmac.Equal(raw[csrfTimestampLen+csrfNonceLen:], mac.Sum(nil)) {
		return ErrCSRFSignatureMismatch
	}

	issuedAt := time.Unix(int64(binary.BigEndian.Uint64(payload)), 0)
	if m.now().UTC().Sub(issuedAt) > m.ttl {
		return ErrCSRFExpired
	}
	return nil
}

// IssueCookie generates a token and writes it as a cookie. The cookie is
// deliberately not HTTP-only so page scripts can mirror it into the header.
func (m *CSRFManager) IssueCookie(w http.ResponseWriter, secure bool) string {
	token := m.Issue()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// TokenFromRequest extracts the submitted token, preferring the form field,
// then the configured header, then the cookie.
func (m *CSRFManager) TokenFromRequest(r *http.Request) string {
	if token := r.PostFormValue(CSRFFormField); token != "" {
		return token
	}
	if token := r.Header.Get(m.headerName); token != "" {
		return token
	}
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// HeaderName reports the header checked for submitted tokens.
func (m *CSRFManager) HeaderName() string {
	return m.headerName
}

func decodeCSRF(token string) ([]byte, error) {
	if raw, err := base64.RawURLEncoding.DecodeString(token); err == nil {
		return raw, nil
	}
	// Padded tokens are accepted too; browsers keep whatever we set.
	return base64.URLEncoding.DecodeString(token)
}
