package shared

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func newTestCSRF(ttl time.Duration) *CSRFManager {
	return NewCSRFManager("unit-test-secret", "bedolaga_csrf", "X-CSRF-Token", ttl)
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestCSRF(30 * time.Minute)
	token := m.Issue()
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if err := m.Validate(token); err != nil {
		t.Fatalf("fresh token should validate, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	m := newTestCSRF(10 * time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }
	token := m.Issue()

	m.now = func() time.Time { return base.Add(10*time.Minute + time.Second) }
	if err := m.Validate(token); !errors.Is(err, ErrCSRFExpired) {
		t.Fatalf("expected ErrCSRFExpired, got %v", err)
	}

	m.now = func() time.Time { return base.Add(9 * time.Minute) }
	if err := m.Validate(token); err != nil {
		t.Fatalf("token inside window should validate, got %v", err)
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	m := newTestCSRF(time.Hour)
	token := m.Issue()
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01
		// The signature covers the full payload, so flipping any byte of
		// either half must surface as a signature mismatch.
		if err := m.Validate(base64.RawURLEncoding.EncodeToString(mutated)); !errors.Is(err, ErrCSRFSignatureMismatch) {
			t.Fatalf("byte %d: expected ErrCSRFSignatureMismatch, got %v", i, err)
		}
	}
}

func TestValidateDistinguishesStructuralFailures(t *testing.T) {
	m := newTestCSRF(time.Hour)

	if err := m.Validate(""); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected ErrCSRFTokenMissing, got %v", err)
	}
	if err := m.Validate("not base64 ((("); !errors.Is(err, ErrCSRFInvalidFormat) {
		t.Fatalf("expected ErrCSRFInvalidFormat, got %v", err)
	}
	short := base64.RawURLEncoding.EncodeToString([]byte("too short"))
	if err := m.Validate(short); !errors.Is(err, ErrCSRFInvalidLength) {
		t.Fatalf("expected ErrCSRFInvalidLength, got %v", err)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := NewCSRFManager("secret-a", "c", "X-CSRF-Token", time.Hour)
	verifier := NewCSRFManager("secret-b", "c", "X-CSRF-Token", time.Hour)
	if err := verifier.Validate(issuer.Issue()); !errors.Is(err, ErrCSRFSignatureMismatch) {
		t.Fatalf("expected ErrCSRFSignatureMismatch, got %v", err)
	}
}
