// Package buildconfig holds the renderer-instance-level tunables that sit
// above a single render job: worker pool size, cache capacity/TTL, and the
// codec binary location. RenderConfiguration and RenderOptions remain
// per-job value types owned by the model package; this is the equivalent
// of a long-lived encoder's process configuration.
package buildconfig

import (
	"fmt"
	"time"

	"github.com/five82/animrender/internal/util"
)

// Defaults mirror the values a render orchestrator falls back to when the
// caller does not override them.
const (
	// DefaultCacheCapacity is the maximum number of cached outcomes.
	DefaultCacheCapacity = 32

	// DefaultCacheTTL is how long a cached outcome stays live.
	DefaultCacheTTL = 15 * time.Minute

	// DefaultCodecBinary is the name of the external codec runtime binary,
	// resolved against PATH unless CodecBinaryPath is set to an absolute path.
	DefaultCodecBinary = "ffmpeg"

	// MinWorkers is the floor applied to an auto-sized worker pool.
	MinWorkers = 2
)

// DefaultWorkers returns half the physical CPU cores, floored at
// MinWorkers. Sizing off physical rather than logical (SMT-doubled)
// cores avoids oversubscribing a pool of CPU-bound raster workers on
// hyperthreaded hosts, while still leaving headroom for the calling
// process rather than saturating every core.
func DefaultWorkers() int {
	n := util.PhysicalCores() / 2
	if n < MinWorkers {
		return MinWorkers
	}
	return n
}

// Config is the renderer-instance configuration: constructed once and
// shared by every render call the instance serves.
type Config struct {
	// Workers is the worker pool size. It must be positive; NewConfig sets
	// it to DefaultWorkers().
	Workers int

	// CacheCapacity is the maximum number of entries the render cache holds.
	CacheCapacity int

	// CacheTTL is the per-entry time-to-live applied by the render cache.
	CacheTTL time.Duration

	// CodecBinaryPath is the path or PATH-resolved name of the codec binary.
	CodecBinaryPath string

	// TempDirRoot is the parent directory under which the codec driver's
	// single temp directory (its virtual filesystem, shared by all jobs with
	// job-id-scoped file names) is created. Empty means os.TempDir().
	TempDirRoot string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Workers:         DefaultWorkers(),
		CacheCapacity:   DefaultCacheCapacity,
		CacheTTL:        DefaultCacheTTL,
		CodecBinaryPath: DefaultCodecBinary,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, c.Workers)
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCacheCapacity, c.CacheCapacity)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidCacheTTL, c.CacheTTL)
	}
	if c.CodecBinaryPath == "" {
		return ErrMissingCodecBinary
	}
	return nil
}
