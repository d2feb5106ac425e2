package environment

import (
	"fmt"
	"strconv"

	"jasper-launcher/internal/domain/model"
)

// Variable names handed to the compose project.
const (
	Locale            = "JASPER_LOCALE"
	ServerProfiles    = "JASPER_SERVER_PROFILES"
	ServerDefaultRole = "JASPER_SERVER_DEFAULT_ROLE"
	Prefetch          = "JASPER_PREFETCH"
	ServerVersion     = "JASPER_SERVER_VERSION"
	ServerPull        = "JASPER_SERVER_PULL"
	ServerPort        = "JASPER_SERVER_PORT"
	ServerHeap        = "JASPER_SERVER_HEAP"
	ServerKey         = "JASPER_SERVER_KEY"
	ClientVersion     = "JASPER_CLIENT_VERSION"
	ClientPull        = "JASPER_CLIENT_PULL"
	ClientPort        = "JASPER_CLIENT_PORT"
	ClientTitle       = "JASPER_CLIENT_TITLE"
	ClientToken       = "JASPER_CLIENT_TOKEN"
	DatabaseVersion   = "JASPER_DATABASE_VERSION"
	DatabasePull      = "JASPER_DATABASE_PULL"
	DataDir           = "JASPER_DATA_DIR"
	StorageDir        = "JASPER_STORAGE_DIR"
	SshVersion        = "JASPER_SSH_VERSION"
	SshPull           = "JASPER_SSH_PULL"
	SshPort           = "JASPER_SSH_PORT"
	SshToken          = "JASPER_SSH_TOKEN"
	CloudflareToken   = "CLOUDFLARE_TOKEN"
	NgrokURL          = "NGROK_URL"
	NgrokToken        = "NGROK_TOKEN"
)

const (
	PullAlways  = "always"
	PullMissing = "missing"
)

// TokenIssuer signs session tokens with a session key.
type TokenIssuer interface {
	IssueToken(subject, key string) (string, error)
}

// Materializer flattens a settings snapshot and a session key into the ordered
// environment of one compose invocation.
type Materializer struct {
	issuer  TokenIssuer
	subject string
}

// NewMaterializer returns a materializer signing tokens for subject.
func NewMaterializer(issuer TokenIssuer, subject string) *Materializer {
	return &Materializer{issuer: issuer, subject: subject}
}

// Materialize builds the environment. It has no state of its own, so the same
// settings and key always yield the same list.
func (m *Materializer) Materialize(s model.Settings, key string) (model.Environment, error) {
	clientToken, err := m.issuer.IssueToken(m.subject, key)
	if err != nil {
		return nil, fmt.Errorf("failed to issue client token: %w", err)
	}
	sshToken, err := m.issuer.IssueToken(m.subject, key)
	if err != nil {
		return nil, fmt.Errorf("failed to issue ssh token: %w", err)
	}

	return model.Environment{
		{Name: Locale, Value: s.Locale},
		{Name: ServerProfiles, Value: s.ServerProfiles},
		{Name: ServerDefaultRole, Value: s.ServerDefaultRole},
		{Name: Prefetch, Value: strconv.FormatBool(s.Prefetch())},
		{Name: ServerVersion, Value: s.ServerVersion},
		{Name: ServerPull, Value: PullPolicy(s.PullServer)},
		{Name: ServerPort, Value: s.ServerPort},
		{Name: ServerHeap, Value: s.ServerRam},
		{Name: ServerKey, Value: key},
		{Name: ClientVersion, Value: s.ClientVersion},
		{Name: ClientPull, Value: PullPolicy(s.PullClient)},
		{Name: ClientPort, Value: s.ClientPort},
		{Name: ClientTitle, Value: s.ClientTitle},
		{Name: ClientToken, Value: clientToken},
		{Name: DatabaseVersion, Value: s.DatabaseVersion},
		{Name: DatabasePull, Value: PullPolicy(s.PullDatabase)},
		{Name: DataDir, Value: s.DataDir},
		{Name: StorageDir, Value: s.StorageDir},
		{Name: SshVersion, Value: s.SshVersion},
		{Name: SshPull, Value: PullPolicy(s.PullSsh)},
		{Name: SshPort, Value: s.SshPort},
		{Name: SshToken, Value: sshToken},
		{Name: CloudflareToken, Value: s.CfToken},
		{Name: NgrokURL, Value: s.NgrokUrl},
		{Name: NgrokToken, Value: s.NgrokToken},
	}, nil
}

// PullPolicy maps a pull flag onto the compose pull_policy value.
func PullPolicy(always bool) string {
	if always {
		return PullAlways
	}
	return PullMissing
}
