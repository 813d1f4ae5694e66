package configs

import "time"

// RateLimit configures the per client fixed window limiter. Writes (POST,
// PUT, PATCH and DELETE) are counted against WriteRequests, everything
// else against Requests.
type RateLimit struct {
	Enabled       bool          `env:"ENABLED" envDefault:"false"`
	Requests      int           `env:"REQUESTS" envDefault:"100"`
	WriteRequests int           `env:"WRITE_REQUESTS" envDefault:"50"`
	Window        time.Duration `env:"WINDOW" envDefault:"15m"`
}
