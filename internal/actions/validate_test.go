package actions

import (
	"net/url"
	"testing"
)

func extendDefinition(t *testing.T) Definition {
	t.Helper()
	def, ok := NewRegistry().Lookup(KeyExtendSubscription)
	if !ok {
		t.Fatalf("extend action missing from registry")
	}
	return def
}

func TestParseFieldsTypedValues(t *testing.T) {
	def, _ := NewRegistry().Lookup(KeyRechargeBalance)
	form := url.Values{
		"user_id":    {"102"},
		"amount_rub": {"150,50"},
	}
	values, err := ParseFields(def, form, "en")
	if err != nil {
		t.Fatalf("ParseFields: %v", err)
	}
	if got := values.Int("user_id"); got != 102 {
		t.Fatalf("user_id = %d, want 102", got)
	}
	if got := values.Kopeks("amount_rub"); got != 15050 {
		t.Fatalf("amount = %d kopeks, want 15050", got)
	}
	if !values.Bool("create_transaction") {
		t.Fatalf("create_transaction should default to true")
	}
}

func TestParseFieldsRejectsMissingRequired(t *testing.T) {
	def := extendDefinition(t)
	_, err := ParseFields(def, url.Values{"days": {"7"}}, "en")
	valErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if valErr.Field != "user_id" {
		t.Fatalf("failing field = %q, want user_id", valErr.Field)
	}
}

func TestParseFieldsRejectsBelowMin(t *testing.T) {
	def := extendDefinition(t)
	form := url.Values{"user_id": {"102"}, "days": {"0"}}
	if _, err := ParseFields(def, form, "en"); err == nil {
		t.Fatalf("days below minimum should be rejected")
	}
}

func TestParseFieldsRejectsNonInteger(t *testing.T) {
	def := extendDefinition(t)
	form := url.Values{"user_id": {"abc"}, "days": {"7"}}
	_, err := ParseFields(def, form, "en")
	valErr, ok := err.(*ValidationError)
	if !ok || valErr.Field != "user_id" {
		t.Fatalf("expected user_id validation error, got %v", err)
	}
}

func TestParseFieldsRejectsZeroAmount(t *testing.T) {
	def, _ := NewRegistry().Lookup(KeyRechargeBalance)
	for _, raw := range []string{"0", "0.004"} {
		form := url.Values{
			"user_id":    {"102"},
			"amount_rub": {raw},
		}
		_, err := ParseFields(def, form, "en")
		valErr, ok := err.(*ValidationError)
		if !ok || valErr.Field != "amount_rub" {
			t.Fatalf("amount %q: expected amount_rub validation error, got %v", raw, err)
		}
	}
}

func TestParseFieldsChoiceValidation(t *testing.T) {
	def, _ := NewRegistry().Lookup(KeySyncAccess)
	values, err := ParseFields(def, url.Values{}, "en")
	if err != nil {
		t.Fatalf("empty choice should fall back to default: %v", err)
	}
	if got := values.Text("mode"); got != SyncToPanel {
		t.Fatalf("mode = %q, want %q", got, SyncToPanel)
	}
	if _, err := ParseFields(def, url.Values{"mode": {"sideways"}}, "en"); err == nil {
		t.Fatalf("unknown choice should be rejected")
	}
}

func TestParseKopeks(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"100", 10000, true},
		{"100.00", 10000, true},
		{"150,50", 15050, true},
		{"-3.5", -350, true},
		{"+0.01", 1, true},
		{"0.005", 1, true},
		{"0.004", 0, true},
		{"1.999", 200, true},
		{".5", 50, true},
		{"92233720368547758.07", 9223372036854775807, true},
		{"", 0, false},
		{"12a", 0, false},
		{"1.2.3", 0, false},
		{"92233720368547759", 0, false},
		{"92233720368547758.08", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseKopeks(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseKopeks(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsChecked(t *testing.T) {
	for _, checked := range []string{"on", "true", "1", "yes", "YES", "On"} {
		if !isChecked(checked) {
			t.Fatalf("%q should count as checked", checked)
		}
	}
	for _, unchecked := range []string{"", "off", "no", "0", "false"} {
		if isChecked(unchecked) {
			t.Fatalf("%q should not count as checked", unchecked)
		}
	}
}

func TestFormatKopeks(t *testing.T) {
	if got := formatKopeks(15050); got != "150.50" {
		t.Fatalf("formatKopeks = %q", got)
	}
	if got := formatKopeks(-5); got != "-0.05" {
		t.Fatalf("formatKopeks negative = %q", got)
	}
	if got := formatSignedKopeks(10000); got != "+100.00" {
		t.Fatalf("formatSignedKopeks = %q", got)
	}
}
