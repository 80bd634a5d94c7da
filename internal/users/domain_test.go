package users

import "testing"

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		user BotUser
		want string
	}{
		{"username wins", BotUser{Username: "bedolaga", FirstName: "Ivan", TelegramID: 42}, "@bedolaga"},
		{"full name", BotUser{FirstName: "Ivan", LastName: "Petrov", TelegramID: 42}, "Ivan Petrov"},
		{"first name only", BotUser{FirstName: "Ivan", TelegramID: 42}, "Ivan"},
		{"telegram fallback", BotUser{TelegramID: 42}, "tg:42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
