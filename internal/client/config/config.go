package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artbook/internal/client/locale"
)

var ErrInvalid = errors.New("invalid config")

// Config holds runtime settings for the artbook client.
type Config struct {
	APIURL          string
	DBPath          string
	Locale          string
	PageSize        int
	RequestTimeout  time.Duration
	LogLevel        string
	ArtistsCategory int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8080/wp-json"
	c.DBPath = "artbook.db"
	c.Locale = string(locale.Default)
	c.PageSize = 5
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.ArtistsCategory = 43
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.APIURL == "":
		return fmt.Errorf("%w: api url is empty", ErrInvalid)
	case c.DBPath == "":
		return fmt.Errorf("%w: db path is empty", ErrInvalid)
	case c.PageSize < 1 || c.PageSize > 100:
		return fmt.Errorf("%w: page size %d out of 1..100", ErrInvalid, c.PageSize)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalid)
	}
	if _, err := locale.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Load builds a Config from defaults, then the config file named in args
// (if any), then the flags in args. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
