package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/tidwall/jsonc"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/log"
)

var (
	// Overridable at build time with -ldflags "-X jasper-launcher/internal/application/config.appID=..."
	appID          string
	controlAddress string
)

const (
	defaultAppID          = "jasper"
	defaultControlAddress = "127.0.0.1:8090"
	defaultGRPCAddress    = "127.0.0.1:8091"
	defaultProjectName    = "jasper"
	defaultDockerBinary   = "docker"
	defaultTokenSubject   = "+user"

	// ConfigFile is looked up in the application data directory when --config is not given.
	ConfigFile = "launcher.jsonc"

	settingsFile     = "settings.json"
	historyFile      = "history.db"
	composeFolder    = "compose"
	composeFileName  = "docker-compose.yaml"
	defaultLogsLevel = "info"
)

// Config holds the launcher's own configuration. It is distinct from the
// user-facing Settings record and is never written by the settings UI.
type Config struct {
	AppID string `json:"app_id,omitempty"`
	// DataPath overrides the per-user application data directory.
	DataPath string `json:"data_path,omitempty"`
	// LogLevel specifies the minimum log level to output (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty"`
	// LogFile, when set, receives a copy of every log line.
	LogFile string `json:"log_file,omitempty"`
	// ComposeFile points at a compose project to use instead of the bundled one.
	ComposeFile  string `json:"compose_file,omitempty"`
	ProjectName  string `json:"project_name,omitempty"`
	DockerBinary string `json:"docker_binary,omitempty"`
	// ControlAddress is where the HTTP/WebSocket control API listens.
	ControlAddress string `json:"control_address,omitempty"`
	// GRPCAddress is where the gRPC health service listens.
	GRPCAddress  string `json:"grpc_address,omitempty"`
	TokenSubject string `json:"token_subject,omitempty"`
	TokenRole    string `json:"token_role,omitempty"`
	// LenientKeys signs with an empty key instead of failing when the session key does not decode.
	LenientKeys *bool `json:"lenient_keys,omitempty"`
	// StopOnExit runs `down` when the daemon shuts down.
	StopOnExit *bool           `json:"stop_on_exit,omitempty"`
	Features   map[string]bool `json:"features"`
}

// NewConfig returns a configuration with every default applied.
func NewConfig() *Config {
	cfg := &Config{}
	prepareConfig(cfg)
	return cfg
}

// prepareConfig applies defaults for every unset field and merges features.
func prepareConfig(cfg *Config) {
	if cfg.AppID == "" {
		if appID != "" {
			cfg.AppID = appID
		} else {
			cfg.AppID = defaultAppID
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogsLevel
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = defaultProjectName
	}
	if cfg.DockerBinary == "" {
		cfg.DockerBinary = defaultDockerBinary
	}
	if cfg.ControlAddress == "" {
		if controlAddress != "" {
			cfg.ControlAddress = controlAddress
		} else {
			cfg.ControlAddress = defaultControlAddress
		}
	}
	if cfg.GRPCAddress == "" {
		cfg.GRPCAddress = defaultGRPCAddress
	}
	if cfg.TokenSubject == "" {
		cfg.TokenSubject = defaultTokenSubject
	}
	if cfg.TokenRole == "" {
		cfg.TokenRole = model.RoleAdmin
	}
	if cfg.LenientKeys == nil {
		lenient := true
		cfg.LenientKeys = &lenient
	}
	if cfg.StopOnExit == nil {
		stop := true
		cfg.StopOnExit = &stop
	}
	cfg.Features = validateAndMergeFeatures(cfg.Features)
}

// validateAndMergeFeatures keeps only known features and fills the rest from defaults.
func validateAndMergeFeatures(configFeatures map[string]bool) map[string]bool {
	merged := make(map[string]bool, len(DefaultFeatureValues))
	for feature, defaultValue := range DefaultFeatureValues {
		if value, exists := configFeatures[feature]; exists {
			merged[feature] = value
		} else {
			merged[feature] = defaultValue
		}
	}
	for feature := range configFeatures {
		if _, known := DefaultFeatureValues[feature]; !known {
			log.Warn("Ignoring unknown feature in launcher config", "feature", feature)
		}
	}
	return merged
}

// LoadConfig reads a JSON-with-comments launcher config. A missing file yields
// defaults; a file that does not parse is an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug("No launcher config found, using defaults", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read launcher config %s: %w", configPath, err)
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse launcher config %s: %w", configPath, err)
		}
	}
	prepareConfig(cfg)
	return cfg, nil
}

// DefaultConfigPath is the launcher config location inside the default data directory.
func DefaultConfigPath() (string, error) {
	dir, err := ResolveDataPath(NewConfig())
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// ResolveDataPath returns the application data directory, creating it if needed.
func ResolveDataPath(cfg *Config) (string, error) {
	dir := cfg.DataPath
	if dir == "" {
		if xdg.DataHome == "" {
			return "", fmt.Errorf("%w: no per-user data directory on this platform", model.ErrPathUnavailable)
		}
		dir = filepath.Join(xdg.DataHome, cfg.AppID)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrPathUnavailable, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrPathUnavailable, err)
	}
	return abs, nil
}

// SettingsPath is the location of the persisted settings record.
func SettingsPath(dataPath string) string {
	return filepath.Join(dataPath, settingsFile)
}

// HistoryPath is the location of the command history database.
func HistoryPath(dataPath string) string {
	return filepath.Join(dataPath, historyFile)
}

// BundledComposeDir is where the embedded compose project is extracted.
func BundledComposeDir(dataPath string) string {
	return filepath.Join(dataPath, composeFolder)
}

// ComposeFilePath returns the compose file to run, preferring the configured one.
func (c *Config) ComposeFilePath(dataPath string) string {
	if c.ComposeFile != "" {
		return c.ComposeFile
	}
	return filepath.Join(BundledComposeDir(dataPath), composeFileName)
}

// UsesBundledCompose reports whether the embedded compose project should be synced.
func (c *Config) UsesBundledCompose() bool {
	return c.ComposeFile == "" && c.IsFeatureEnabled(FeatureEmbeddedCompose)
}

func (c *Config) IsLenientKeys() bool {
	return c.LenientKeys == nil || *c.LenientKeys
}

func (c *Config) IsStopOnExit() bool {
	return c.StopOnExit == nil || *c.StopOnExit
}
