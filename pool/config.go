package pool

import "fmt"

const (
	defaultInitialSize = 32
	defaultHardLimit   = 1024
)

// Config controls a single pool's sizing behavior.
type Config struct {
	// InitialSize is the number of objects pre-warmed into the free list
	// at construction time.
	InitialSize int

	// HardLimit caps how many released objects the free list retains.
	// Acquire is never blocked by it; releases past the limit discard
	// the object instead of retaining it.
	HardLimit int

	// Verbose enables detailed logging of pool operations.
	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		InitialSize: defaultInitialSize,
		HardLimit:   defaultHardLimit,
	}
}

// withDefaults fills zero values from the defaults, matching the
// builder behavior of ignoring unset parameters.
func (c Config) withDefaults() Config {
	if c.InitialSize <= 0 {
		c.InitialSize = defaultInitialSize
	}
	if c.HardLimit <= 0 {
		c.HardLimit = defaultHardLimit
	}
	return c
}

// validate performs validation of the pool configuration parameters:
// - initialSize must be positive
// - hardLimit must be positive and greater than or equal to initialSize
// Returns an error if any validation fails.
func (c Config) validate() error {
	if c.InitialSize <= 0 {
		return fmt.Errorf("initialSize must be greater than 0, got %d", c.InitialSize)
	}

	if c.HardLimit <= 0 {
		return fmt.Errorf("hardLimit must be greater than 0, got %d", c.HardLimit)
	}

	if c.HardLimit < c.InitialSize {
		return fmt.Errorf("hardLimit (%d) must be >= initialSize (%d)", c.HardLimit, c.InitialSize)
	}

	return nil
}
