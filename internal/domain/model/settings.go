package model

import (
	"path/filepath"
)

const (
	RoleAdmin     = "ROLE_ADMIN"
	RoleViewer    = "ROLE_VIEWER"
	RoleAnonymous = "ROLE_ANONYMOUS"
)

// Optional compose profiles of the tunnel services.
const (
	ProfileCloudflare = "cf"
	ProfileNgrok      = "ngrok"
)

// Settings is the persisted configuration record. It is the single source of truth
// for both the settings UI and the orchestration environment.
type Settings struct {
	Locale     string `json:"locale"`
	AutoUpdate bool   `json:"autoUpdate"`

	ServerVersion     string `json:"serverVersion"`
	PullServer        bool   `json:"pullServer"`
	ServerPort        string `json:"serverPort"`
	ServerProfiles    string `json:"serverProfiles"`
	ServerDefaultRole string `json:"serverDefaultRole"`
	ServerRam         string `json:"serverRam"`

	ClientVersion string `json:"clientVersion"`
	PullClient    bool   `json:"pullClient"`
	ClientPort    string `json:"clientPort"`
	ClientTitle   string `json:"clientTitle"`

	DatabaseVersion string `json:"databaseVersion"`
	PullDatabase    bool   `json:"pullDatabase"`

	DataDir    string `json:"dataDir"`
	StorageDir string `json:"storageDir"`

	SshVersion string `json:"sshVersion"`
	PullSsh    bool   `json:"pullSsh"`
	SshPort    string `json:"sshPort"`

	// Tunnel credentials. An empty string disables the integration.
	CfToken    string `json:"cfToken"`
	NgrokUrl   string `json:"ngrokUrl"`
	NgrokToken string `json:"ngrokToken"`

	ShowLogsOnStart bool `json:"showLogsOnStart"`
}

// DefaultSettings returns the record written on first run. Paths are rooted in the
// per-user application data directory.
func DefaultSettings(appDataDir string) Settings {
	return Settings{
		Locale:            "en",
		AutoUpdate:        true,
		ServerVersion:     "v1.3",
		PullServer:        true,
		ServerPort:        "8081",
		ServerProfiles:    "prod,jwt,storage,scripts,proxy,file-cache",
		ServerDefaultRole: RoleAnonymous,
		ServerRam:         "1g",
		ClientVersion:     "v1.3",
		PullClient:        true,
		ClientPort:        "8082",
		ClientTitle:       "Jasper",
		DatabaseVersion:   "16",
		PullDatabase:      true,
		DataDir:           filepath.Join(appDataDir, "data"),
		StorageDir:        filepath.Join(appDataDir, "storage"),
		SshVersion:        "v1.1",
		PullSsh:           true,
		SshPort:           "8022",
		CfToken:           "",
		NgrokUrl:          "",
		NgrokToken:        "",
		ShowLogsOnStart:   false,
	}
}

// Prefetch reports whether the client should prefetch content, which only makes
// sense when the default role can read without logging in.
func (s Settings) Prefetch() bool {
	return s.ServerDefaultRole == RoleViewer || s.ServerDefaultRole == RoleAnonymous
}

// CloudflareEnabled reports whether the Cloudflare tunnel profile should be started.
func (s Settings) CloudflareEnabled() bool {
	return s.CfToken != ""
}

// NgrokEnabled reports whether the ngrok tunnel profile should be started.
func (s Settings) NgrokEnabled() bool {
	return s.NgrokToken != ""
}

// Profiles returns the optional compose profiles these settings enable.
func (s Settings) Profiles() []string {
	var profiles []string
	if s.CloudflareEnabled() {
		profiles = append(profiles, ProfileCloudflare)
	}
	if s.NgrokEnabled() {
		profiles = append(profiles, ProfileNgrok)
	}
	return profiles
}

// ClientURL is the entry point served by the client container.
func (s Settings) ClientURL() string {
	return "http://localhost:" + s.ClientPort
}

// ServerHealthURL is the readiness probe exposed by the server container.
func (s Settings) ServerHealthURL() string {
	return "http://localhost:" + s.ServerPort + "/management/health/readiness"
}
