package buildconfig

import (
	"errors"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Workers < MinWorkers {
		t.Errorf("expected Workers>=%d, got %d", MinWorkers, cfg.Workers)
	}
	if cfg.CacheCapacity != DefaultCacheCapacity {
		t.Errorf("expected CacheCapacity=%d, got %d", DefaultCacheCapacity, cfg.CacheCapacity)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("expected CacheTTL=%s, got %s", DefaultCacheTTL, cfg.CacheTTL)
	}
	if cfg.CodecBinaryPath != DefaultCodecBinary {
		t.Errorf("expected CodecBinaryPath=%s, got %s", DefaultCodecBinary, cfg.CodecBinaryPath)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:         "zero workers is invalid",
			modify:       func(c *Config) { c.Workers = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidWorkerCount,
		},
		{
			name:         "negative cache capacity is invalid",
			modify:       func(c *Config) { c.CacheCapacity = -1 },
			wantErr:      true,
			wantSentinel: ErrInvalidCacheCapacity,
		},
		{
			name:    "zero cache capacity is valid (unbounded cache)",
			modify:  func(c *Config) { c.CacheCapacity = 0 },
			wantErr: false,
		},
		{
			name:         "zero cache TTL is invalid",
			modify:       func(c *Config) { c.CacheTTL = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidCacheTTL,
		},
		{
			name:         "empty codec binary path is invalid",
			modify:       func(c *Config) { c.CodecBinaryPath = "" },
			wantErr:      true,
			wantSentinel: ErrMissingCodecBinary,
		},
		{
			name:    "custom positive values are valid",
			modify:  func(c *Config) { c.Workers = 16; c.CacheTTL = time.Hour },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("Validate() error = %v, want sentinel %v", err, tt.wantSentinel)
			}
		})
	}
}

func TestDefaultWorkers(t *testing.T) {
	if got := DefaultWorkers(); got < MinWorkers {
		t.Errorf("DefaultWorkers() = %d, want >= %d", got, MinWorkers)
	}
}
