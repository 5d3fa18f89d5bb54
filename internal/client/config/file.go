package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/artbook/internal/flagx"
	"github.com/dmitrijs2005/artbook/internal/timex"
)

// fileConfig is a DTO used only for decoding config files. Pointer fields
// tell absent keys from zero values.
type fileConfig struct {
	APIURL          *string         `json:"api_url" yaml:"api_url"`
	DBPath          *string         `json:"db_path" yaml:"db_path"`
	Locale          *string         `json:"locale" yaml:"locale"`
	PageSize        *int            `json:"page_size" yaml:"page_size"`
	RequestTimeout  *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
	ArtistsCategory *int            `json:"artists_category" yaml:"artists_category"`
}

// parseFile overlays cfg with the file named by -c/-config. No flag, no
// change.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	setIf(&cfg.APIURL, fc.APIURL)
	setIf(&cfg.DBPath, fc.DBPath)
	setIf(&cfg.Locale, fc.Locale)
	setIf(&cfg.PageSize, fc.PageSize)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.ArtistsCategory, fc.ArtistsCategory)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
