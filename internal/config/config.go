// Package config loads viewer settings from defaults, an optional YAML file,
// a .env file and CAMPAIGNMAP_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "CAMPAIGNMAP"
	FileName  = "campaignmap"
)

type Config struct {
	Window WindowConfig `mapstructure:"window"`
	Map    MapConfig    `mapstructure:"map"`
	Input  InputConfig  `mapstructure:"input"`
	Assets AssetsConfig `mapstructure:"assets"`
	Log    LogConfig    `mapstructure:"log"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type MapConfig struct {
	File       string `mapstructure:"file"` // Empty for the built-in sample
	TileSize   int    `mapstructure:"tile_size"`
	FadeRadius int    `mapstructure:"fade_radius"`
}

type InputConfig struct {
	DoubleClick time.Duration `mapstructure:"double_click"`
}

type AssetsConfig struct {
	Root      string `mapstructure:"root"`
	Workers   int    `mapstructure:"workers"`
	CacheSize int    `mapstructure:"cache_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 300)
	v.SetDefault("window.height", 300)
	v.SetDefault("window.title", "Campaign Map")

	v.SetDefault("map.file", "")
	v.SetDefault("map.tile_size", 50)
	v.SetDefault("map.fade_radius", 5)

	v.SetDefault("input.double_click", 250*time.Millisecond)

	v.SetDefault("assets.root", ".")
	v.SetDefault("assets.workers", 4)
	v.SetDefault("assets.cache_size", 256)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads the configuration. With path empty, campaignmap.yaml is looked
// up in the working directory and ./config and may be absent; otherwise path
// must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Map.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("map.tile_size must be positive, got %d", c.Map.TileSize))
	}
	if c.Map.FadeRadius < 0 {
		errs = append(errs, fmt.Errorf("map.fade_radius must not be negative, got %d", c.Map.FadeRadius))
	}
	if c.Input.DoubleClick <= 0 {
		errs = append(errs, fmt.Errorf("input.double_click must be positive, got %s", c.Input.DoubleClick))
	}
	if c.Assets.Workers <= 0 {
		errs = append(errs, fmt.Errorf("assets.workers must be positive, got %d", c.Assets.Workers))
	}
	if c.Assets.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("assets.cache_size must be positive, got %d", c.Assets.CacheSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
