package security

import "time"

// Settings is an immutable snapshot of the console's security policy for
// privileged actions. The pipeline reads one snapshot per submission; edits by
// another administrator become visible on the next submission.
type Settings struct {
	BalanceSoftLimitRub        int64
	BalanceHardLimitRub        int64
	RequireBalanceConfirmation bool
	RequireBlockConfirmation   bool
	RateLimitCount             int
	RateLimitWindowSeconds     int
	UpdatedAt                  time.Time
}

// Defaults returns the values applied when the settings row is first created.
func Defaults() Settings {
	return Settings{
		BalanceSoftLimitRub:        50000,
		BalanceHardLimitRub:        100000,
		RequireBalanceConfirmation: true,
		RequireBlockConfirmation:   true,
		RateLimitCount:             10,
		RateLimitWindowSeconds:     60,
	}
}

// SoftLimitKopeks converts the soft limit to minor units; zero means disabled.
func (s Settings) SoftLimitKopeks() int64 {
	return s.BalanceSoftLimitRub * 100
}

// HardLimitKopeks converts the hard limit to minor units; zero means disabled.
func (s Settings) HardLimitKopeks() int64 {
	return s.BalanceHardLimitRub * 100
}
