package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:8080/wp-json", c.APIURL)
	assert.Equal(t, "en", c.Locale)
	assert.Equal(t, 5, c.PageSize)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 43, c.ArtistsCategory)
	require.NoError(t, c.Validate())
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "https://cms.test/wp-json", "-d", "/tmp/a.db", "-l", "ru", "-p", "20", "-t", "3", "-v", "debug"},
			expected: &Config{
				APIURL: "https://cms.test/wp-json", DBPath: "/tmp/a.db", Locale: "ru", PageSize: 20,
				RequestTimeout: 3 * time.Second, LogLevel: "debug", ArtistsCategory: 43,
			},
		},
		{
			name: "unknown flags ignored",
			args: []string{"-x", "1", "-p", "7", "--verbose"},
			expected: func() *Config {
				c := defaults()
				c.PageSize = 7
				return c
			}(),
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "cfg.json", `{"api_url":"https://json.test/wp-json","request_timeout":"30s","page_size":8}`)
		cfg := defaults()

		require.NoError(t, parseFile(cfg, []string{"-config", path}))

		want := defaults()
		want.APIURL = "https://json.test/wp-json"
		want.RequestTimeout = 30 * time.Second
		want.PageSize = 8
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "cfg.yaml", "locale: ru\nrequest_timeout: 2s\nartists_category: 7\n")
		cfg := defaults()

		require.NoError(t, parseFile(cfg, []string{"-c", path}))

		assert.Equal(t, "ru", cfg.Locale)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 7, cfg.ArtistsCategory)
		assert.Equal(t, "http://localhost:8080/wp-json", cfg.APIURL)
	})

	t.Run("no flag, no change", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseFile(cfg, nil))
		assert.Empty(t, cmp.Diff(defaults(), cfg))
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{ this is not valid json`)
		require.Error(t, parseFile(defaults(), []string{"-c", path}))
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseFile(defaults(), []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "cfg.yml", "api_url: https://file.test/wp-json\npage_size: 9\n")

	cfg, err := Load([]string{"-c", path, "-p", "3"})
	require.NoError(t, err)

	assert.Equal(t, "https://file.test/wp-json", cfg.APIURL)
	assert.Equal(t, 3, cfg.PageSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][]string{
		"page size": {"-p", "0"},
		"locale":    {"-l", "de"},
		"timeout":   {"-t", "0"},
		"api url":   {"-a", ""},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(args)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}
