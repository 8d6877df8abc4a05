package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings are the user's persistent preferences. Command-line flags and
// environment variables take precedence over them.
type Settings struct {
	DefaultDeal string `toml:"default_deal"`
	DealsDir    string `toml:"deals_dir"`
	SessionsDir string `toml:"sessions_dir"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Color       string `toml:"color"` // auto, always or never
	LogFile     string `toml:"log_file"`
	NATSURL     string `toml:"nats_url"`
	SSHAddr     string `toml:"ssh_addr"`
}

// DefaultSettings returns the settings written on first use.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultDeal: DefaultDealName,
		DealsDir:    "deals",
		SessionsDir: "sessions",
		Host:        "localhost",
		Port:        8080,
		Color:       "auto",
		LogFile:     filepath.Join(os.TempDir(), "klondike.log"),
		SSHAddr:     ":2222",
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or ~/.config.
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// SettingsPath returns the location of config.toml.
func SettingsPath() string {
	return filepath.Join(GetXDGConfigHome(), "klondike", "config.toml")
}

// LoadSettings reads the settings file, creating it with defaults if needed.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(SettingsPath())
}

// LoadSettingsFrom reads settings from path, creating it with defaults if it
// does not exist. Keys missing from the file keep their default values.
func LoadSettingsFrom(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s := DefaultSettings()
		if err := SaveSettings(path, s); err != nil {
			return nil, err
		}
		return s, nil
	}

	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("error decoding settings file: %w", err)
	}
	return s, nil
}

// SaveSettings writes s to path as TOML.
func SaveSettings(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating settings directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating settings file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}
	return nil
}

// SetDefaultDeal updates default_deal in the settings file at path.
func SetDefaultDeal(path, name string) error {
	s, err := LoadSettingsFrom(path)
	if err != nil {
		return err
	}
	s.DefaultDeal = name
	return SaveSettings(path, s)
}
