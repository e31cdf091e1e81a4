package api

// Leaderboard limit defaults.
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type options struct {
	defaultLimit int
	maxLimit     int
}

func defaultOptions() options {
	return options{defaultLimit: DefaultLeaderboardLimit, maxLimit: MaxLeaderboardLimit}
}

// Option applies a configuration option to the Server.
type Option func(*options)

// WithLeaderboardLimits sets the limit used when none is given and the
// largest limit accepted. Non-positive values keep the defaults.
func WithLeaderboardLimits(defaultLimit, maxLimit int) Option {
	return func(o *options) {
		if maxLimit > 0 {
			o.maxLimit = maxLimit
		}
		if defaultLimit > 0 {
			o.defaultLimit = defaultLimit
		}
		if o.defaultLimit > o.maxLimit {
			o.defaultLimit = o.maxLimit
		}
	}
}
