package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/artbook/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about. Other arguments are
// filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-p", "-t", "-v"})

	fs := flag.NewFlagSet("artbook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "REST root of the CMS")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "content locale")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "posts per page")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
