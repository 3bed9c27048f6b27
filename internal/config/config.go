// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for the HWID manager. It uses Viper for file/env/flag parsing and
// exposes utility functions to read/write configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName = "hwidmanager"
	// DefaultSlotKey is the storage key the HWID list lives under.
	DefaultSlotKey = "minecraft-hwid-list"
)

// Config is the full application configuration.
type Config struct {
	Language string  `mapstructure:"language" yaml:"language"`
	Storage  Storage `mapstructure:"storage" yaml:"storage"`
	Log      Log     `mapstructure:"log" yaml:"log"`
}

// Storage selects and configures the persistent slot backend.
type Storage struct {
	// Type is one of "file", "memory", "sqlite", "postgres", "mysql" or "s3".
	Type string `mapstructure:"type" yaml:"type"`
	// Path is the directory used by the file backend.
	Path string `mapstructure:"path" yaml:"path"`
	// DSN is the connection string used by the SQL backends.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
	// Key names the slot holding the HWID list.
	Key string `mapstructure:"key" yaml:"key"`
	S3  S3     `mapstructure:"s3" yaml:"s3"`
}

// S3 configures the S3 (or S3-compatible) slot backend.
type S3 struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Region    string `mapstructure:"region" yaml:"region"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
}

// Log configures the application logger.
type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File receives log output while the TUI owns the terminal.
	File string `mapstructure:"file" yaml:"file"`
}

// Defaults returns the default value of every known configuration key.
func Defaults() map[string]any {
	return map[string]any{
		"language":              "en",
		"storage.type":          "file",
		"storage.path":          DefaultDataDir(),
		"storage.dsn":           "./hwidmanager.db",
		"storage.key":           DefaultSlotKey,
		"storage.s3.bucket":     "",
		"storage.s3.region":     "us-east-1",
		"storage.s3.endpoint":   "",
		"storage.s3.access_key": "",
		"storage.s3.secret_key": "",
		"storage.s3.prefix":     "",
		"log.level":             "info",
		"log.file":              "",
	}
}

// DefaultDataDir returns the directory the file backend uses when none is
// configured. It falls back to the working directory when the user config
// directory cannot be determined.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appName, "data")
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "HWIDManager")
		default: // Linux, macOS, etc.
			configDir = "/etc/" + appName
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, appName)
	}

	return filepath.Join(configDir, appName+".yaml"), nil
}

// LoadConfig resolves configuration from defaults, config files, environment
// variables and the command's flags, in increasing order of precedence.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")

	// An explicit --config path wins over the search paths below.
	if explicitPath != nil {
		v.SetConfigFile(*explicitPath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile writes c as YAML to the user or system config path,
// creating the directory when needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may hold S3 credentials or a database password.
	return os.WriteFile(path, data, 0600)
}
