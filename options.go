package micube

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultScanTimeout is how long ConnectFirst scans unless WithScanTimeout is set.
const DefaultScanTimeout = 30 * time.Second

// Option configures MiCube behavior.
type Option func(*config)

type config struct {
	logger         zerolog.Logger
	battery        bool
	connectRetries int
	scanTimeout    time.Duration
	namePrefix     string
}

func defaultConfig() *config {
	return &config{
		logger:         zerolog.Nop(),
		battery:        true,
		connectRetries: 10,
		scanTimeout:    DefaultScanTimeout,
		namePrefix:     "Gi",
	}
}

func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger for connection and decode events.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithBattery enables or disables the battery request sent after connecting.
// Enabled by default.
func WithBattery(enabled bool) Option {
	return func(c *config) {
		c.battery = enabled
	}
}

// WithConnectRetries sets how many connection attempts are made before
// giving up. The default is 10; values below 1 are treated as 1.
func WithConnectRetries(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.connectRetries = n
	}
}

// WithScanTimeout sets how long ConnectFirst scans for a cube.
// The default is 30 seconds.
func WithScanTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.scanTimeout = d
		}
	}
}

// WithNamePrefix sets the advertised name prefix that identifies a cube.
// The default is "Gi", which matches Giiker and Mi Smart cubes.
func WithNamePrefix(prefix string) Option {
	return func(c *config) {
		c.namePrefix = prefix
	}
}
