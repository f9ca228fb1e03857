package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

const appDirName = "totalwar-mod-launcher"

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	GameKey           string `mapstructure:"GAME_KEY"`
	GamePath          string `mapstructure:"GAME_PATH"`
	SecondaryModsPath string `mapstructure:"SECONDARY_MODS_PATH"`
	ConfigDir         string `mapstructure:"CONFIG_DIR"`
	WorkshopperPath   string `mapstructure:"WORKSHOPPER_PATH"`
	SkipNetworkUpdate bool   `mapstructure:"SKIP_NETWORK_UPDATE"`
	DatabasePath      string `mapstructure:"-"` // derived
	ProfilesDir       string `mapstructure:"-"` // derived
}

var envKeys = []string{
	"GAME_KEY",
	"GAME_PATH",
	"SECONDARY_MODS_PATH",
	"CONFIG_DIR",
	"WORKSHOPPER_PATH",
	"SKIP_NETWORK_UPDATE",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()
	for _, key := range envKeys {
		if err := viper.BindEnv(key, key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	processConfigDefaults(&config)
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// processConfigDefaults fills in everything the user did not set.
func processConfigDefaults(config *Config) {
	if config.GameKey == "" {
		config.GameKey = "warhammer_3"
	}

	// Viper doesn't coerce bools from .env files reliably, read the raw string.
	skipStr := viper.GetString("SKIP_NETWORK_UPDATE")
	if skipStr != "" {
		skip, err := strconv.ParseBool(skipStr)
		if err != nil {
			slog.Warn("Invalid value for SKIP_NETWORK_UPDATE, defaulting to false", "value", skipStr, "error", err)
			skip = false
		}
		config.SkipNetworkUpdate = skip
	}

	if config.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		config.ConfigDir = filepath.Join(base, appDirName)
	}

	config.DatabasePath = filepath.Join(config.ConfigDir, "history.db")
	config.ProfilesDir = filepath.Join(config.ConfigDir, "profiles")
}

// validateAndEnsureDirectories creates the launcher's own folders. The game
// folders are never created here, they belong to the game installation.
func validateAndEnsureDirectories(config *Config) error {
	if config.ConfigDir == "" {
		return fmt.Errorf("CONFIG_DIR is required")
	}

	for _, dir := range []string{config.ConfigDir, filepath.Join(config.ConfigDir, "profiles")} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			slog.Info("Directory does not exist, creating it", "path", dir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check directory %s: %w", dir, err)
		}
	}

	if config.GamePath != "" {
		if info, err := os.Stat(config.GamePath); err != nil || !info.IsDir() {
			slog.Warn("GAME_PATH does not point to a folder, scans will find no mods", "path", config.GamePath)
		}
	}
	return nil
}
