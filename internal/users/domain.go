// Package users exposes read-only views over the bot's user records. All
// mutation goes through the action pipeline and the web API.
package users

import (
	"strconv"
	"time"
)

// BotUser is the slice of a bot user shown in the console.
type BotUser struct {
	ID            int64
	TelegramID    int64
	Username      string
	FirstName     string
	LastName      string
	Status        string
	Language      string
	BalanceKopeks int64
	CreatedAt     time.Time
	LastActivity  time.Time
}

// DisplayName mirrors the bot's presentation rules: @username first, then the
// real name, then the telegram id.
func (u BotUser) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name != "" {
		return name
	}
	return "tg:" + strconv.FormatInt(u.TelegramID, 10)
}

// Filter narrows user listings.
type Filter struct {
	Search string
	Status string
	Limit  int
	Offset int
}
