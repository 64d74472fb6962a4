// Package config handles compiler configuration loading and management.
package config

import "github.com/zha/honeybee-radiance/internal/folder"

// Config holds all compiler settings.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Folder  FolderConfig  `yaml:"folder"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig holds scene compilation settings.
type OutputConfig struct {
	// Folder is the compilation root. Empty means a "radiance" directory
	// next to the model file.
	Folder string `yaml:"folder"`

	// Minimal writes geometry and modifier blocks as single lines.
	Minimal bool `yaml:"minimal"`

	// Workers fans the static categories out on a worker pool when > 1.
	Workers int `yaml:"workers"`
}

// FolderConfig overrides the category folder names of the output layout.
type FolderConfig struct {
	Names folder.Names `yaml:"names"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Folder:  "",
			Minimal: false,
			Workers: 1,
		},
		Folder: FolderConfig{
			Names: folder.DefaultNames(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
