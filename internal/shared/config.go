package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Library     LibraryConfig     `toml:"library"`
	Limits      LimitsConfig      `toml:"limits"`
	Database    DatabaseConfig    `toml:"database"`
	Logging     LoggingConfig     `toml:"logging"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Yandex  YandexConfig  `toml:"yandex"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// YandexConfig contains Yandex Music API credentials.
type YandexConfig struct {
	Token string `toml:"token"`
}

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	ProxyURL  string `toml:"proxy_url"`
	AuthFile  string `toml:"auth_file"`
	HTTPProxy string `toml:"http_proxy"`
}

// LibraryConfig names the reserved playlists and the files read or written by the library commands.
type LibraryConfig struct {
	LikedPlaylistID    string `toml:"liked_playlist_id"`
	SystemPlaylistID   string `toml:"system_playlist_id"`
	PlaylistLimit      int    `toml:"playlist_limit"`
	PlaylistTrackLimit int    `toml:"playlist_track_limit"`
	ArtistMap          string `toml:"artist_map"`
	ReportPath         string `toml:"report_path"`
	OrphansPath        string `toml:"orphans_path"`
}

// LimitsConfig paces requests to the target service.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoggingConfig controls the log level and the directory for log files.
type LoggingConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes config to path as TOML, replacing any existing file.
//
// Comments from the example template are not preserved.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.Library.LikedPlaylistID == "" {
		return fmt.Errorf("%w: library.liked_playlist_id is empty", ErrInvalidConfig)
	}
	if c.Library.LikedPlaylistID == c.Library.SystemPlaylistID {
		return fmt.Errorf("%w: liked and system playlist ids must differ", ErrInvalidConfig)
	}
	if c.Limits.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: limits.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// RequireYandex reports whether Yandex Music credentials are present.
func (c *Config) RequireYandex() error {
	if c.Credentials.Yandex.Token == "" {
		return fmt.Errorf("%w: credentials.yandex.token is empty", ErrMissingCredentials)
	}
	return nil
}

// RequireYouTube reports whether the YouTube Music proxy settings are present.
func (c *Config) RequireYouTube() error {
	if c.Credentials.YouTube.ProxyURL == "" {
		return fmt.Errorf("%w: credentials.youtube.proxy_url is empty", ErrMissingCredentials)
	}
	if c.Credentials.YouTube.AuthFile == "" {
		return fmt.Errorf("%w: credentials.youtube.auth_file is empty", ErrMissingCredentials)
	}
	return nil
}
