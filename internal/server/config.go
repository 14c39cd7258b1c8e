package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Environment variables applied on top of the server config file.
const (
	EnvAddress  = "PAYSIM_SERVER_ADDRESS"
	EnvDatabase = "PAYSIM_SERVER_DATABASE"
)

// MemoryDatabase is the DatabasePath value selecting the in-memory scenario
// store. Saved structures and profiles are lost on restart.
const MemoryDatabase = "memory"

// DefaultAllowedOrigins are the browser origins allowed to call the payout
// API when none are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// Config is the payout API server configuration, read from
// server-config.yaml.
type Config struct {
	Address string `yaml:"address"`
	// DatabasePath is the SQLite file holding saved structures and
	// profiles, or MemoryDatabase.
	DatabasePath   string   `yaml:"databasePath"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	// MaxUploadSize caps calculate and analyze request bodies, e.g. "256K".
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Logging       config.LoggingConfig `yaml:"logging"`

	uploadSizeBytes int64
}

func defaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		DatabasePath:    constants.DefaultDatabasePath,
		AllowedOrigins:  append([]string(nil), DefaultAllowedOrigins...),
		MaxUploadSize:   strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig reads the server configuration at path. A missing file or an
// empty path yields the defaults. Blank fields fall back to their defaults
// and EnvAddress and EnvDatabase override the file.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if v, ok := os.LookupEnv(EnvAddress); ok {
		cfg.Address = v
	}
	if v, ok := os.LookupEnv(EnvDatabase); ok {
		cfg.DatabasePath = v
	}

	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes is the request body limit handed to the router.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes replaces the body limit. Non-positive sizes are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
}

func (c *Config) fillDefaults() error {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	c.DatabasePath = strings.TrimSpace(c.DatabasePath)
	if c.DatabasePath == "" {
		c.DatabasePath = constants.DefaultDatabasePath
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize reads a byte count with an optional binary unit suffix such as
// "512", "256K" or "2MB". Blank input means the default body limit.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.TrimRightFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	unit := strings.TrimSpace(s[len(digits):])
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > 0 && n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
