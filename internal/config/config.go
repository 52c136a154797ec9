package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries runtime options for taskmon.
type Config struct {
	RefreshInterval time.Duration `toml:"refresh_interval" yaml:"refresh_interval"`
	PerfInterval    time.Duration `toml:"perf_interval" yaml:"perf_interval"`
	CPUWindow       time.Duration `toml:"cpu_window" yaml:"cpu_window"`
	WindowTimeout   time.Duration `toml:"window_timeout" yaml:"window_timeout"`
	DiskPath        string        `toml:"disk_path" yaml:"disk_path"`
	RequireRunning  bool          `toml:"require_running" yaml:"require_running"`
	Format          string        `toml:"format" yaml:"format"`
	LogFile         string        `toml:"log_file" yaml:"log_file"`
	LogLevel        string        `toml:"log_level" yaml:"log_level"`
}

func Default() Config {
	return Config{
		RefreshInterval: 5 * time.Second,
		PerfInterval:    5 * time.Second,
		CPUWindow:       100 * time.Millisecond,
		WindowTimeout:   2 * time.Second,
		DiskPath:        "/",
		RequireRunning:  true,
		Format:          "yaml",
		LogLevel:        "info",
	}
}

// Load returns defaults overlaid with the TOML file at path (if any) and then
// TASKMON_* environment overrides. Flags are applied by the caller afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TASKMON_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TASKMON_REFRESH_INTERVAL", &c.RefreshInterval},
		{"TASKMON_PERF_INTERVAL", &c.PerfInterval},
		{"TASKMON_CPU_WINDOW", &c.CPUWindow},
		{"TASKMON_WINDOW_TIMEOUT", &c.WindowTimeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	if v := getenv("TASKMON_DISK_PATH"); v != "" {
		c.DiskPath = v
	}
	if v := getenv("TASKMON_REQUIRE_RUNNING"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TASKMON_REQUIRE_RUNNING: %w", err)
		}
		c.RequireRunning = b
	}
	if v := getenv("TASKMON_FORMAT"); v != "" {
		c.Format = v
	}
	if v := getenv("TASKMON_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := getenv("TASKMON_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate rejects settings the poller cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.RefreshInterval <= 0 {
		errs = append(errs, errors.New("refresh_interval must be positive"))
	}
	if c.PerfInterval <= 0 {
		errs = append(errs, errors.New("perf_interval must be positive"))
	}
	if c.CPUWindow <= 0 || c.CPUWindow >= time.Second {
		errs = append(errs, errors.New("cpu_window must be between 0 and 1s"))
	}
	if c.WindowTimeout <= 0 {
		errs = append(errs, errors.New("window_timeout must be positive"))
	}
	if c.DiskPath == "" {
		errs = append(errs, errors.New("disk_path must not be empty"))
	}
	switch c.Format {
	case "yaml", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported format %q (use yaml or json)", c.Format))
	}
	return errors.Join(errs...)
}

// parseDuration accepts Go durations and bare seconds ("5" == "5s").
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if parsed, err := time.ParseDuration(v); err == nil {
		return parsed, nil
	}
	return time.ParseDuration(v + "s")
}
