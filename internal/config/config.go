package config

import (
	"errors"
	"time"
)

var (
	ErrInvalidPort             = errors.New("server port must be between 1 and 65535")
	ErrInvalidReadTimeout      = errors.New("read timeout must be greater than 0")
	ErrInvalidDialTimeout      = errors.New("dial timeout must be greater than 0")
	ErrInvalidAmbiguousPercent = errors.New("ambiguous success percent must be between 0 and 100")
	ErrInvalidMaxFrameBytes    = errors.New("max frame bytes must be greater than 0")
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Transfer TransferConfig `json:"transfer"`
}

// ServerConfig holds connection settings for the download server
type ServerConfig struct {
	Host        string        `json:"host"`
	Port        int           `json:"port"`
	DialTimeout time.Duration `json:"dial_timeout"`
}

// TransferConfig holds transfer session settings
type TransferConfig struct {
	// ReadTimeout bounds each blocking read; expiry ends the session as
	// timed out rather than retrying.
	ReadTimeout time.Duration `json:"read_timeout"`
	// AmbiguousSuccessPercent is the progress threshold above which a clean
	// close without an explicit terminal message is treated as a likely
	// success. The protocol gives no guarantee here, so the threshold is a
	// policy knob rather than a hard rule.
	AmbiguousSuccessPercent int `json:"ambiguous_success_percent"`
	// MaxFrameBytes bounds how large a single status message may grow
	// before the decoder discards its opening delimiter as noise.
	MaxFrameBytes int `json:"max_frame_bytes"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "localhost",
			Port:        8080,
			DialTimeout: 10 * time.Second,
		},
		Transfer: TransferConfig{
			ReadTimeout:             60 * time.Second,
			AmbiguousSuccessPercent: 90,
			MaxFrameBytes:           1024 * 1024, // 1 MB
		},
	}
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Server.DialTimeout <= 0 {
		return ErrInvalidDialTimeout
	}
	if c.Transfer.ReadTimeout <= 0 {
		return ErrInvalidReadTimeout
	}
	if c.Transfer.AmbiguousSuccessPercent < 0 || c.Transfer.AmbiguousSuccessPercent > 100 {
		return ErrInvalidAmbiguousPercent
	}
	if c.Transfer.MaxFrameBytes <= 0 {
		return ErrInvalidMaxFrameBytes
	}
	return nil
}
