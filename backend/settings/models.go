package settings

import (
	"os"
	"strconv"
)

const (
	defaultAPIPort      = 4000
	defaultHistoryLimit = 100
)

// Settings represents application settings
type Settings struct {
	APIPort       int  `json:"apiPort"`
	HistoryLimit  int  `json:"historyLimit"`
	HotkeyEnabled bool `json:"hotkeyEnabled"`
}

// DefaultSettings returns default application settings
func DefaultSettings() *Settings {
	return &Settings{
		APIPort:       envInt("PORT", defaultAPIPort),
		HistoryLimit:  envInt("MULTIPLATFORM_HISTORY_LIMIT", defaultHistoryLimit),
		HotkeyEnabled: os.Getenv("MULTIPLATFORM_HOTKEY") != "false",
	}
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// normalize fills zero values left by older settings files
func (s *Settings) normalize() {
	if s.APIPort <= 0 {
		s.APIPort = defaultAPIPort
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = defaultHistoryLimit
	}
}
