package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultDaemonAddress = "127.0.0.1:7767"
const defaultAutosaveIdleSeconds = 10
const defaultSessionTTLMinutes = 60

type Config struct {
	Daemon  DaemonConfig  `toml:"daemon"`
	Logging LoggingConfig `toml:"logging"`
	Editor  EditorConfig  `toml:"editor"`
}

type DaemonConfig struct {
	Address           string `toml:"address"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type EditorConfig struct {
	AutosaveIdleSeconds int  `toml:"autosave_idle_seconds"`
	DarkMarkdown        bool `toml:"dark_markdown"`
}

func DefaultConfig() Config {
	return Config{
		Daemon: DaemonConfig{
			Address:           defaultDaemonAddress,
			SessionTTLMinutes: defaultSessionTTLMinutes,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Editor: EditorConfig{
			AutosaveIdleSeconds: defaultAutosaveIdleSeconds,
			DarkMarkdown:        true,
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func (c Config) DaemonAddress() string {
	addr := strings.TrimSpace(c.Daemon.Address)
	if addr == "" {
		return defaultDaemonAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultDaemonAddress
	}
	return addr
}

func (c Config) DaemonBaseURL() string {
	return "http://" + c.DaemonAddress()
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) SessionTTL() time.Duration {
	minutes := c.Daemon.SessionTTLMinutes
	if minutes <= 0 {
		minutes = defaultSessionTTLMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (c Config) AutosaveIdle() time.Duration {
	seconds := c.Editor.AutosaveIdleSeconds
	if seconds <= 0 {
		seconds = defaultAutosaveIdleSeconds
	}
	return time.Duration(seconds) * time.Second
}

func loadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
