package document

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/internal/grammar"
	"github.com/arloliu/ujo/internal/options"
	"github.com/arloliu/ujo/internal/pool"
)

// DefaultBufferSize is the initial memory sink capacity and the buffer size
// of file sinks and sources.
const DefaultBufferSize = pool.SinkBufferDefaultSize

// Config holds the settings shared by writers and readers.
type Config struct {
	logger        zerolog.Logger
	bufferSize    int
	stackCapacity int
}

// NewConfig returns the default configuration: no logging, a 4KiB buffer
// and room for 16 nested containers before the frame stack grows.
func NewConfig() *Config {
	return &Config{
		logger:        zerolog.Nop(),
		bufferSize:    DefaultBufferSize,
		stackCapacity: grammar.DefaultStackCapacity,
	}
}

// Logger returns the configured logger.
func (c *Config) Logger() zerolog.Logger {
	return c.logger
}

// BufferSize returns the configured buffer size in bytes.
func (c *Config) BufferSize() int {
	return c.bufferSize
}

// Option configures a Writer or a Reader.
type Option = options.Option[*Config]

// WithLogger sets the logger used for debug output. Grammar violations and
// decode failures are logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}

// WithBufferSize sets the initial memory sink capacity and the file buffer
// size. It must be positive.
func WithBufferSize(size int) Option {
	return options.New(func(c *Config) error {
		if size <= 0 {
			return fmt.Errorf("%w: buffer size must be positive, got %d", errs.ErrInvalidData, size)
		}
		c.bufferSize = size

		return nil
	})
}

// WithStackCapacity sets how many nested containers the frame stack holds
// before it reallocates. Deeper documents still work.
func WithStackCapacity(depth int) Option {
	return options.New(func(c *Config) error {
		if depth <= 0 {
			return fmt.Errorf("%w: stack capacity must be positive, got %d", errs.ErrInvalidData, depth)
		}
		c.stackCapacity = depth

		return nil
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := NewConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
