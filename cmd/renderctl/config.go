package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the renderctl configuration. Values come from DefaultConfig,
// then the --config file, then explicitly set flags.
type Config struct {
	Location       string        `yaml:"location"`
	LogLevel       string        `yaml:"log_level"`
	ProtocolLog    string        `yaml:"protocol_log"`
	ProtocolLogMax int64         `yaml:"protocol_log_max_bytes"`
	StateFile      string        `yaml:"state_file"`
	VolumeStep     int64         `yaml:"volume_step"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Interactive    bool          `yaml:"interactive"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		VolumeStep:     4,
		RequestTimeout: 10 * time.Second,
	}
}

// Config errors.
var (
	ErrInvalidVolumeStep = errors.New("volume step must be positive")
	ErrInvalidTimeout    = errors.New("request timeout must be positive")
	ErrInvalidLogMax     = errors.New("protocol log size limit must not be negative")
)

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.VolumeStep <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidVolumeStep, c.VolumeStep)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.RequestTimeout)
	}
	if c.ProtocolLogMax < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLogMax, c.ProtocolLogMax)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// loadConfigFile reads YAML from path over cfg. Keys absent from the file
// keep their current values.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// parseFlags builds the configuration from args and returns the remaining
// positional arguments. Flag parsing stops at the first positional argument
// so that "volume -5" reaches the command unchanged.
func parseFlags(args []string, stderr io.Writer) (Config, []string, error) {
	fs := flag.NewFlagSet("renderctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)

	var (
		configFile string
		set        Config
	)
	fs.StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&set.Location, "location", "l", "", "Renderer description URL")
	fs.StringVar(&set.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&set.ProtocolLog, "protocol-log", "", "File path for protocol event logging (CBOR format)")
	fs.Int64Var(&set.ProtocolLogMax, "protocol-log-max-bytes", 0, "Rotate the protocol log at this size (0 disables)")
	fs.StringVar(&set.StateFile, "state-file", "", "JSON file remembering selected renderers")
	fs.Int64Var(&set.VolumeStep, "volume-step", 4, "Volume change for up/down")
	fs.DurationVar(&set.RequestTimeout, "request-timeout", 10*time.Second, "Timeout for each control action")
	fs.BoolVarP(&set.Interactive, "interactive", "i", false, "Enable interactive command mode")

	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	cfg := DefaultConfig()
	if configFile != "" {
		if err := loadConfigFile(configFile, &cfg); err != nil {
			return Config{}, nil, err
		}
	}

	if fs.Changed("location") {
		cfg.Location = set.Location
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = set.LogLevel
	}
	if fs.Changed("protocol-log") {
		cfg.ProtocolLog = set.ProtocolLog
	}
	if fs.Changed("protocol-log-max-bytes") {
		cfg.ProtocolLogMax = set.ProtocolLogMax
	}
	if fs.Changed("state-file") {
		cfg.StateFile = set.StateFile
	}
	if fs.Changed("volume-step") {
		cfg.VolumeStep = set.VolumeStep
	}
	if fs.Changed("request-timeout") {
		cfg.RequestTimeout = set.RequestTimeout
	}
	if fs.Changed("interactive") {
		cfg.Interactive = set.Interactive
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}
