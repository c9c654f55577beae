package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "tesselate.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. TESSELATE_BOARD_SCALE.
const EnvPrefix = "TESSELATE"

// ErrNoConfigFile is returned by Load when the file is absent. Defaults and
// environment overrides still apply.
var ErrNoConfigFile = errors.New("config file not found")

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Dir    string
	ToFile bool
}

// BoardConfig holds plane and legality settings
type BoardConfig struct {
	Width         float64 `json:"width" mapstructure:"width"`
	Height        float64 `json:"height" mapstructure:"height"`
	Scale         float64 `json:"scale" mapstructure:"scale"`
	DotRadius     float64 `json:"dotRadius" mapstructure:"dotRadius"`
	MaxEdgeLength float64 `json:"maxEdgeLength" mapstructure:"maxEdgeLength"`
	// Pattern forces a layout by name; empty picks one at random per board.
	Pattern string `json:"pattern" mapstructure:"pattern"`
}

// GameConfig holds session settings
type GameConfig struct {
	// Seed seeds dice and layout selection; zero seeds from the clock.
	Seed int64
	// JSON switches console output to streaming envelopes.
	JSON bool
}

// GraylogConfig holds the optional GELF sink settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// OTelConfig holds metric export settings
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	ExportInterval time.Duration
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"log-level": "logLevel",
	"logs-dir":  "logsDir",
	"log-file":  "logToFile",
	"width":     "board.width",
	"height":    "board.height",
	"scale":     "board.scale",
	"pattern":   "board.pattern",
	"seed":      "game.seed",
	"json":      "output.json",
	"otel":      "otel.enabled",
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("logToFile", false)

	viper.SetDefault("board.width", 900)
	viper.SetDefault("board.height", 520)
	viper.SetDefault("board.scale", 1.0)
	viper.SetDefault("board.dotRadius", 6.0)
	viper.SetDefault("board.maxEdgeLength", 250.0)
	viper.SetDefault("board.pattern", "")

	viper.SetDefault("game.seed", 0)
	viper.SetDefault("output.json", false)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "tesselate")
	viper.SetDefault("otel.exportInterval", "30s")
}

// Load sets defaults, enables environment overrides, and reads
// FileName from configDir. A missing file returns ErrNoConfigFile.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile(filepath.Join(configDir, FileName))
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return fmt.Errorf("%w: %s", ErrNoConfigFile, filepath.Join(configDir, FileName))
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// RegisterFlags defines the command-line flags that override config keys.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("logs-dir", "./logs", "directory for log files")
	flags.Bool("log-file", false, "write logs to a file in logs-dir instead of stderr")
	flags.Float64("width", 900, "plane width")
	flags.Float64("height", 520, "plane height")
	flags.Float64("scale", 1, "layout and threshold scale factor")
	flags.String("pattern", "", "force a layout pattern (e.g. hexagonal-grid, star)")
	flags.Int64("seed", 0, "random seed, 0 seeds from the clock")
	flags.Bool("json", false, "write line-delimited JSON instead of text")
	flags.Bool("otel", false, "export metrics to stdout")
}

// BindFlags binds the flags defined by RegisterFlags into viper. Only flags
// set on the command line take precedence over file and environment values.
func BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetLogConfig returns logging settings.
func GetLogConfig() LogConfig {
	return LogConfig{
		Level:  viper.GetString("logLevel"),
		Dir:    viper.GetString("logsDir"),
		ToFile: viper.GetBool("logToFile"),
	}
}

// GetBoardConfig returns plane and legality settings.
func GetBoardConfig() BoardConfig {
	return BoardConfig{
		Width:         viper.GetFloat64("board.width"),
		Height:        viper.GetFloat64("board.height"),
		Scale:         viper.GetFloat64("board.scale"),
		DotRadius:     viper.GetFloat64("board.dotRadius"),
		MaxEdgeLength: viper.GetFloat64("board.maxEdgeLength"),
		Pattern:       strings.TrimSpace(viper.GetString("board.pattern")),
	}
}

// GetGameConfig returns session settings.
func GetGameConfig() GameConfig {
	return GameConfig{
		Seed: viper.GetInt64("game.seed"),
		JSON: viper.GetBool("output.json"),
	}
}

// GetGraylogConfig returns GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetOTelConfig returns metric export settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}
