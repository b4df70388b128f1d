package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir    string `yaml:"work_dir"`
	AssetIndex string `yaml:"asset_index"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Preview settings
	Preview PreviewConfig `yaml:"preview"`

	// Subtitle settings
	Subtitles SubtitleConfig `yaml:"subtitles"`
}

type FFmpegConfig struct {
	Threads int `yaml:"threads"`
}

type PreviewConfig struct {
	FPS float64 `yaml:"fps"`
	// LowQuality halves the cartoon edge-pass resolution on every preview frame.
	LowQuality bool `yaml:"low_quality"`
}

type SubtitleConfig struct {
	FontName  string `yaml:"font_name"`
	FontSize  int    `yaml:"font_size"`
	FontColor string `yaml:"font_color"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		WorkDir:    "./work",
		AssetIndex: "./work/assets.yaml",
		FFmpeg: FFmpegConfig{
			Threads: 0,
		},
		Preview: PreviewConfig{
			FPS:        30,
			LowQuality: true,
		},
		Subtitles: SubtitleConfig{
			FontName:  "Arial",
			FontSize:  96,
			FontColor: "#FFFFFF",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".vibecut", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
