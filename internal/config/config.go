package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sentinel errors returned by Load.
var (
	ErrConfigNotFound = eris.New("config file not found")
	ErrConfigParse    = eris.New("config parse error")
	ErrConfigInvalid  = eris.New("config invalid")
)

// Hemisphere values accepted in the hemisphere key.
const (
	HemisphereNorth = "north"
	HemisphereSouth = "south"
)

// Config holds one run's configuration. Keys match the JSON config file.
type Config struct {
	File           string    `yaml:"file" mapstructure:"file"`
	FileOut        string    `yaml:"file_out" mapstructure:"file_out"`
	ShapefileOut   string    `yaml:"shapefile_out" mapstructure:"shapefile_out"`
	ZoomStart      int       `yaml:"zoom_start" mapstructure:"zoom_start"`
	CircRadio      float64   `yaml:"circ_radio" mapstructure:"circ_radio"`
	ReProv         string    `yaml:"reprov" mapstructure:"reprov"`
	ReMunicipio    string    `yaml:"remunicipio" mapstructure:"remunicipio"`
	LatCentro      float64   `yaml:"lat_centro" mapstructure:"lat_centro"`
	LonCentro      float64   `yaml:"lon_centro" mapstructure:"lon_centro"`
	CenterEasting  float64   `yaml:"center_easting" mapstructure:"center_easting"`
	CenterNorthing float64   `yaml:"center_northing" mapstructure:"center_northing"`
	UTMZone        int       `yaml:"utm_zone" mapstructure:"utm_zone"`
	Hemisphere     string    `yaml:"hemisphere" mapstructure:"hemisphere"`
	Strict         bool      `yaml:"strict" mapstructure:"strict"`
	Tiles          string    `yaml:"tiles" mapstructure:"tiles"`
	Log            LogConfig `yaml:"log" mapstructure:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultPath returns the config path derived from the program name:
// "/usr/bin/rta2map" becomes "rta2map.json".
func DefaultPath(program string) string {
	base := filepath.Base(program)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// Load reads the config file at path and environment overrides.
// On any failure the returned Config is nil.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrConfigNotFound, "config: %s", path)
		}
		return nil, eris.Wrapf(err, "config: stat %s", path)
	}

	v := viper.New()

	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}

	// Environment
	v.SetEnvPrefix("RTA2MAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("zoom_start", 14)
	v.SetDefault("circ_radio", 10)
	v.SetDefault("reprov", "")
	v.SetDefault("remunicipio", "")
	v.SetDefault("utm_zone", 30)
	v.SetDefault("hemisphere", HemisphereNorth)
	v.SetDefault("strict", false)
	v.SetDefault("tiles", "positron")
	v.SetDefault("shapefile_out", "")
	v.SetDefault("file", "")
	v.SetDefault("file_out", "")
	v.SetDefault("lat_centro", 0)
	v.SetDefault("lon_centro", 0)
	v.SetDefault("center_easting", 0)
	v.SetDefault("center_northing", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(ErrConfigParse, "config: read %s: %v", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrapf(ErrConfigParse, "config: unmarshal %s: %v", path, err)
	}

	return &cfg, nil
}

// Validate checks the fields a run cannot proceed without.
func (c *Config) Validate() error {
	var missing []string
	if c.File == "" {
		missing = append(missing, "file")
	}
	if c.FileOut == "" {
		missing = append(missing, "file_out")
	}
	if len(missing) > 0 {
		return eris.Wrapf(ErrConfigInvalid, "missing required keys: %s", strings.Join(missing, ", "))
	}
	if c.UTMZone < 1 || c.UTMZone > 60 {
		return eris.Wrapf(ErrConfigInvalid, "utm_zone %d out of range 1-60", c.UTMZone)
	}
	if c.Hemisphere != HemisphereNorth && c.Hemisphere != HemisphereSouth {
		return eris.Wrapf(ErrConfigInvalid, "hemisphere must be %q or %q, got %q", HemisphereNorth, HemisphereSouth, c.Hemisphere)
	}
	if c.ZoomStart < 0 {
		return eris.Wrapf(ErrConfigInvalid, "zoom_start must not be negative, got %d", c.ZoomStart)
	}
	if c.CircRadio <= 0 {
		return eris.Wrapf(ErrConfigInvalid, "circ_radio must be positive, got %g", c.CircRadio)
	}
	if _, err := regexp.Compile(c.ReProv); err != nil {
		return eris.Wrapf(ErrConfigInvalid, "reprov %q: %v", c.ReProv, err)
	}
	if _, err := regexp.Compile(c.ReMunicipio); err != nil {
		return eris.Wrapf(ErrConfigInvalid, "remunicipio %q: %v", c.ReMunicipio, err)
	}
	return nil
}

// North reports whether the configured hemisphere is the northern one.
func (c *Config) North() bool {
	return c.Hemisphere != HemisphereSouth
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
