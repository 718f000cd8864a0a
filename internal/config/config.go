// Package config provides configuration types, defaults and persistence for tomatobar.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tomatobar/internal/core/model"
)

// AppName names the config and data directories.
const AppName = "tomatobar"

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Config holds user preferences. Presets live in their own file.
type Config struct {
	StopAfterBreak     bool         `mapstructure:"stop_after_break" yaml:"stop_after_break"`
	ShowTimerInMenuBar bool         `mapstructure:"show_timer_in_menu_bar" yaml:"show_timer_in_menu_bar"`
	OverrunTimeLimit   int          `mapstructure:"overrun_time_limit" yaml:"overrun_time_limit"` // seconds, <= 0
	LaunchAtLogin      bool         `mapstructure:"launch_at_login" yaml:"launch_at_login"`
	Volume             VolumeConfig `mapstructure:"volume" yaml:"volume"`
	Log                LogConfig    `mapstructure:"log" yaml:"log"`
	DataDir            string       `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
}

// VolumeConfig holds per-sound volumes in [0, 1].
type VolumeConfig struct {
	Windup  float64 `mapstructure:"windup" yaml:"windup"`
	Ding    float64 `mapstructure:"ding" yaml:"ding"`
	Ticking float64 `mapstructure:"ticking" yaml:"ticking"`
	Dark    float64 `mapstructure:"dark" yaml:"dark"`
	Rainy   float64 `mapstructure:"rainy" yaml:"rainy"`
}

// LogConfig controls log output.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path,omitempty"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		StopAfterBreak:     false,
		ShowTimerInMenuBar: true,
		OverrunTimeLimit:   int(model.DefaultOverrunTimeLimit / time.Second),
		Volume: VolumeConfig{
			Windup:  1,
			Ding:    1,
			Ticking: 1,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("stop_after_break", defaults.StopAfterBreak)
	v.SetDefault("show_timer_in_menu_bar", defaults.ShowTimerInMenuBar)
	v.SetDefault("overrun_time_limit", defaults.OverrunTimeLimit)
	v.SetDefault("launch_at_login", defaults.LaunchAtLogin)
	v.SetDefault("volume.windup", defaults.Volume.Windup)
	v.SetDefault("volume.ding", defaults.Volume.Ding)
	v.SetDefault("volume.ticking", defaults.Volume.Ticking)
	v.SetDefault("volume.dark", defaults.Volume.Dark)
	v.SetDefault("volume.rainy", defaults.Volume.Rainy)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("data_dir", defaults.DataDir)
}

// DefaultDir returns the per-user config directory.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

// Load reads the config file at path into v, creating it with defaults
// when missing. An empty path uses DefaultDir. Returns the file used.
func Load(v *viper.Viper, path string) (Config, string, error) {
	SetDefaults(v)

	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Defaults(), "", err
		}
		path = filepath.Join(dir, FileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Defaults(), path, fmt.Errorf("read config: %w", err)
		}
		if err := Save(path, Defaults()); err != nil {
			return Defaults(), path, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Defaults(), path, fmt.Errorf("decode config: %w", err)
	}
	return cfg, path, nil
}

// Settings converts the timer related fields. An out of range overrun
// limit falls back to the default.
func (cfg Config) Settings() model.Settings {
	settings := model.Settings{
		StopAfterBreak:     cfg.StopAfterBreak,
		ShowTimerInMenuBar: cfg.ShowTimerInMenuBar,
		OverrunTimeLimit:   time.Duration(cfg.OverrunTimeLimit) * time.Second,
	}
	if settings.Validate() != nil {
		settings.OverrunTimeLimit = model.DefaultOverrunTimeLimit
	}
	return settings
}

// WithSettings returns cfg with the timer fields replaced.
func (cfg Config) WithSettings(settings model.Settings) Config {
	cfg.StopAfterBreak = settings.StopAfterBreak
	cfg.ShowTimerInMenuBar = settings.ShowTimerInMenuBar
	cfg.OverrunTimeLimit = int(settings.OverrunTimeLimit / time.Second)
	return cfg
}

// ResolveDataDir returns DataDir or, when unset, the directory holding
// the config file.
func (cfg Config) ResolveDataDir(configPath string) string {
	if cfg.DataDir != "" {
		return cfg.DataDir
	}
	return filepath.Dir(configPath)
}

// Save writes cfg to path atomically.
func Save(path string, cfg Config) error {
	serialized, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(serialized); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
