package i18n

import "testing"

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", "ru"},
		{"ru-RU,ru;q=0.9", "ru"},
		{"en-US,en;q=0.8", "en"},
		{"de-DE,de;q=0.9", "ru"},
		{"not a header", "ru"},
	}
	for _, tc := range cases {
		if got := ResolveLocale(tc.header); got != tc.want {
			t.Fatalf("ResolveLocale(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestTranslateFallsBack(t *testing.T) {
	if got := T("ru", "actions.unknown.title"); got != "Неизвестное действие" {
		t.Fatalf("unexpected ru message: %q", got)
	}
	if got := T("de", "actions.unknown.title"); got == "actions.unknown.title" {
		t.Fatalf("unknown locale should fall back to a real message")
	}
	if got := T("en", "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should return the key, got %q", got)
	}
}

func TestTranslateFormatsArgs(t *testing.T) {
	got := T("en", "actions.extend.message", int64(102), 7)
	want := "Subscription of user 102 extended by 7 days."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
