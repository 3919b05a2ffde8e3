// Package config handles loading todolist.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/todolist/internal/paths"
	"github.com/amonks/todolist/media"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = "todolist.toml"

// DefaultPort is used when no address is configured.
const DefaultPort = 8089

// Config represents the todolist.toml configuration file.
type Config struct {
	Server Server `toml:"server"`
	Media  Media  `toml:"media"`
	UI     UI     `toml:"ui"`
	Log    Log    `toml:"log"`
}

// Server contains HTTP server configuration.
type Server struct {
	// Addr is a host:port or a bare port.
	Addr string `toml:"addr"`
}

// Media contains attachment configuration.
type Media struct {
	// AcceptedTypes narrows the built-in accepted MIME types.
	AcceptedTypes []string `toml:"accepted-types"`

	// MaxBytes caps a single file's size. Zero means no limit.
	MaxBytes int64 `toml:"max-bytes"`
}

// UI contains presentation defaults.
type UI struct {
	// Theme is the initial web theme.
	Theme string `toml:"theme"`

	// DarkMode starts the web UI in dark mode.
	DarkMode bool `toml:"dark-mode"`
}

// Log contains logging configuration.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Load loads configuration from dir and the global config file.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigFile()
	if err != nil {
		return nil, err
	}
	return LoadFiles(globalPath, filepath.Join(dir, ProjectFile))
}

// LoadFiles loads and merges a global and a project config file. Missing
// files are treated as empty.
func LoadFiles(globalPath, projectPath string) (*Config, error) {
	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(projectPath)
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	if path == "" {
		return &Config{}, toml.MetaData{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	merged := Config{}
	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.UI.Theme = mergeString(projectMeta.IsDefined("ui", "theme"), projectCfg.UI.Theme, globalCfg.UI.Theme)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)

	merged.UI.DarkMode = globalCfg.UI.DarkMode
	if projectMeta.IsDefined("ui", "dark-mode") {
		merged.UI.DarkMode = projectCfg.UI.DarkMode
	}
	merged.Media.MaxBytes = globalCfg.Media.MaxBytes
	if projectMeta.IsDefined("media", "max-bytes") {
		merged.Media.MaxBytes = projectCfg.Media.MaxBytes
	}
	if projectMeta.IsDefined("media", "accepted-types") {
		merged.Media.AcceptedTypes = append([]string(nil), projectCfg.Media.AcceptedTypes...)
	} else if globalMeta.IsDefined("media", "accepted-types") {
		merged.Media.AcceptedTypes = append([]string(nil), globalCfg.Media.AcceptedTypes...)
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

// MediaPolicy builds the attachment policy described by the config.
func (c *Config) MediaPolicy() (media.Policy, error) {
	policy, err := media.NewPolicy(c.Media.AcceptedTypes)
	if err != nil {
		return media.Policy{}, fmt.Errorf("media.accepted-types: %w", err)
	}
	return policy, nil
}

// ResolveAddr returns the listen address, preferring override over the
// configured value. Bare ports bind to 127.0.0.1.
func (c *Config) ResolveAddr(override string) (string, error) {
	addr := strings.TrimSpace(override)
	if addr == "" {
		addr = c.Server.Addr
	}
	if addr == "" {
		return fmt.Sprintf("127.0.0.1:%d", DefaultPort), nil
	}
	return normalizeAddr(addr)
}

func normalizeAddr(addr string) (string, error) {
	if strings.Contains(addr, ":") {
		return addr, nil
	}
	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", addr)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}
