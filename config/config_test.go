package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flanksource/informe/layout"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	opts, err := cfg.LayoutOptions()
	require.NoError(t, err)
	assert.NotEmpty(t, opts)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
pageSize: letter
locale: en
columns: 2
grid:
  separators: true
theme:
  section: bg-emerald-700 text-white font-bold
fetch:
  concurrency: 8
  perImageTimeout: 5s
cache:
  ttl: 1h
`))
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 2, cfg.Columns)
	assert.True(t, cfg.Grid.Separators)
	assert.True(t, cfg.Grid.AlternateRows, "unset keys keep defaults")
	assert.Equal(t, "bg-emerald-700 text-white font-bold", cfg.Theme.Section)
	assert.Equal(t, layout.DefaultTheme().Header, cfg.Theme.Header)
	assert.Equal(t, 8, cfg.Fetch.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Fetch.PerImageTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Fetch.TotalTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	g, err := cfg.Frame()
	require.NoError(t, err)
	assert.InDelta(t, 215.9, g.PageWidth, 0.1)
	assert.InDelta(t, 279.4, g.PageHeight, 0.1)
	assert.Equal(t, 15.0, g.MarginLeft)
	require.NoError(t, cfg.Validate())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("pagesize: a4\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{name: "page size", mutate: func(c *Config) { c.PageSize = "b7" }},
		{name: "locale", mutate: func(c *Config) { c.Locale = "fr" }},
		{name: "columns", mutate: func(c *Config) { c.Columns = 0 }, is: layout.ErrInvalidColumns},
		{name: "concurrency", mutate: func(c *Config) { c.Fetch.Concurrency = 0 }},
		{name: "margins", mutate: func(c *Config) { c.Geometry.MarginLeft = 150 }, is: layout.ErrInvalidGeometry},
		{name: "tiles", mutate: func(c *Config) { c.Photos.TileWidth = 400 }, is: layout.ErrInvalidGeometry},
		{name: "theme", mutate: func(c *Config) { c.Theme.Summary = "bg-nope-400" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "informe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns: 4\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Columns)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBindPFlags(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindPFlags(fs, &cfg)
	require.NoError(t, fs.Parse([]string{"--locale=en", "--columns=1", "--no-cache", "--photo-timeout=3s"}))
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 1, cfg.Columns)
	assert.True(t, cfg.Cache.NoCache)
	assert.Equal(t, 3*time.Second, cfg.Fetch.PerImageTimeout)
	assert.Equal(t, "a4", cfg.PageSize)
}
