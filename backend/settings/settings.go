package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDirName   = "multiplatform-example"
	settingsFile = "settings.json"
)

var (
	mu          sync.RWMutex
	appSettings *Settings
)

// InitSettings loads settings from configDir, writing defaults when the
// file is missing or unreadable
func InitSettings(configDir string) *Settings {
	s, err := LoadSettings(configDir)
	if err != nil {
		slog.Warn("Error loading settings, using defaults", "error", err)
		s = DefaultSettings()

		if saveErr := SaveSettings(configDir, s); saveErr != nil {
			slog.Error("Error saving initial default settings", "error", saveErr)
		}
	}

	mu.Lock()
	appSettings = s
	mu.Unlock()

	slog.Info("Settings initialized", "settings", s)
	return s
}

// GetCurrentSettings returns the current settings instance
func GetCurrentSettings() *Settings {
	mu.RLock()
	defer mu.RUnlock()
	if appSettings == nil {
		return DefaultSettings()
	}
	return appSettings
}

// UpdateSettings saves newSettings and makes them current
func UpdateSettings(configDir string, newSettings *Settings) error {
	newSettings.normalize()
	if err := SaveSettings(configDir, newSettings); err != nil {
		return err
	}
	mu.Lock()
	appSettings = newSettings
	mu.Unlock()
	return nil
}

// GetConfigDir returns the per-user config directory, creating it if needed
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appConfigDir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(appConfigDir, 0750); err != nil {
		return "", err
	}
	return appConfigDir, nil
}

// SaveSettings saves the settings to a file
func SaveSettings(configDir string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return err
	}
	filePath := filepath.Join(configDir, settingsFile)
	return os.WriteFile(filePath, data, 0600)
}

// LoadSettings loads the settings from a file
func LoadSettings(configDir string) (*Settings, error) {
	filePath := filepath.Join(configDir, settingsFile)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default settings if file doesn't exist
			return DefaultSettings(), nil
		}
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	s.normalize()

	return &s, nil
}
