package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AllKeys(t *testing.T) {
	path := writeConfig(t, "rta2map.json", `{
		"file": "rta.json",
		"file_out": "map.html",
		"zoom_start": 12,
		"circ_radio": 8,
		"reprov": "C.DIZ",
		"remunicipio": "CÁDIZ",
		"lat_centro": 36.52612,
		"lon_centro": -6.28871
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rta.json", cfg.File)
	assert.Equal(t, "map.html", cfg.FileOut)
	assert.Equal(t, 12, cfg.ZoomStart)
	assert.InDelta(t, 8.0, cfg.CircRadio, 0.0001)
	assert.Equal(t, "C.DIZ", cfg.ReProv)
	assert.Equal(t, "CÁDIZ", cfg.ReMunicipio)
	assert.InDelta(t, 36.52612, cfg.LatCentro, 1e-9)
	assert.InDelta(t, -6.28871, cfg.LonCentro, 1e-9)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "rta2map.json", `{"file": "a.json", "file_out": "b.html"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.ZoomStart)
	assert.InDelta(t, 10.0, cfg.CircRadio, 0.0001)
	assert.Equal(t, 30, cfg.UTMZone)
	assert.Equal(t, HemisphereNorth, cfg.Hemisphere)
	assert.True(t, cfg.North())
	assert.False(t, cfg.Strict)
	assert.Equal(t, "positron", cfg.Tiles)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.ShapefileOut)
}

func TestLoad_NotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, eris.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "broken.json", `{"file": "a.json",`)

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, eris.Is(err, ErrConfigParse))
	assert.False(t, eris.Is(err, ErrConfigNotFound))
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "rta2map.yaml", "file: a.json\nfile_out: b.html\nutm_zone: 29\nhemisphere: south\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 29, cfg.UTMZone)
	assert.False(t, cfg.North())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "rta2map.json", `{"file": "a.json", "file_out": "b.html", "zoom_start": 12}`)

	t.Setenv("RTA2MAP_ZOOM_START", "16")
	t.Setenv("RTA2MAP_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.ZoomStart)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func validConfig() *Config {
	return &Config{
		File:        "a.json",
		FileOut:     "b.html",
		ZoomStart:   14,
		CircRadio:   10,
		ReProv:      "CÁDIZ",
		ReMunicipio: "CÁDIZ",
		UTMZone:     30,
		Hemisphere:  HemisphereNorth,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing file", mutate: func(c *Config) { c.File = "" }, wantErr: "file"},
		{name: "missing both paths", mutate: func(c *Config) { c.File, c.FileOut = "", "" }, wantErr: "file, file_out"},
		{name: "zone zero", mutate: func(c *Config) { c.UTMZone = 0 }, wantErr: "utm_zone"},
		{name: "zone 61", mutate: func(c *Config) { c.UTMZone = 61 }, wantErr: "utm_zone"},
		{name: "bad hemisphere", mutate: func(c *Config) { c.Hemisphere = "east" }, wantErr: "hemisphere"},
		{name: "zero zoom", mutate: func(c *Config) { c.ZoomStart = 0 }},
		{name: "negative zoom", mutate: func(c *Config) { c.ZoomStart = -1 }, wantErr: "zoom_start"},
		{name: "negative radius", mutate: func(c *Config) { c.CircRadio = -1 }, wantErr: "circ_radio"},
		{name: "bad province regex", mutate: func(c *Config) { c.ReProv = "(" }, wantErr: "reprov"},
		{name: "bad municipality regex", mutate: func(c *Config) { c.ReMunicipio = "[a-" }, wantErr: "remunicipio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrConfigInvalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "rta2map.json", DefaultPath("/usr/local/bin/rta2map"))
	assert.Equal(t, "rta2map.json", DefaultPath("rta2map.exe"))
	assert.Equal(t, "tool.json", DefaultPath("./tool"))
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
