// SPDX-License-Identifier: Apache-2.0

package movemaster

import "time"

// Config holds the engine tuning knobs.
type Config struct {
	// ResponseTimeout bounds the wait for a framed response.
	ResponseTimeout time.Duration

	// SettleDelay is the pacing interval after fire-and-forget
	// commands.
	SettleDelay time.Duration
}

func defaultConfig() Config {
	return Config{
		ResponseTimeout: DefaultResponseTimeout,
		SettleDelay:     DefaultSettleDelay,
	}
}

// Option is a functional option for configuring the Robot.
type Option func(*Config)

// WithResponseTimeout sets the bound on waiting for a reply.
//
// Example:
//
//	robot := movemaster.New(conn, movemaster.WithResponseTimeout(10*time.Second))
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.ResponseTimeout = d
		}
	}
}

// WithSettleDelay sets the pacing interval between fire-and-forget
// commands. Zero disables pacing (useful against simulators).
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleDelay = d
		}
	}
}
