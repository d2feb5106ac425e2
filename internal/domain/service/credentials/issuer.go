package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dgrijalva/jwt-go"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/log"
)

const (
	// KeySize is the number of random bytes in a session key.
	KeySize = 128

	DefaultSubject = "+user"

	claimAudience = "aud"
	claimRole     = "auth"
	claimSubject  = "sub"
)

// Issuer mints session keys and the tokens signed with them.
type Issuer struct {
	// Role is written to the auth claim of every token.
	Role string
	// Lenient signs with an empty key when the session key does not decode
	// instead of returning ErrKeyDecode.
	Lenient bool
}

// NewIssuer returns an issuer for the given role.
func NewIssuer(role string, lenient bool) *Issuer {
	if role == "" {
		role = model.RoleAdmin
	}
	return &Issuer{Role: role, Lenient: lenient}
}

// IssueKey returns a fresh base64 encoded session key. The value must never be
// persisted or logged.
func (i *Issuer) IssueKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to read random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// IssueToken signs an HS512 token for subject with the decoded key. The result
// is deterministic for a given subject, role and key.
func (i *Issuer) IssueToken(subject, key string) (string, error) {
	secret, err := i.decodeKey(key)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		claimAudience: "",
		claimRole:     i.Role,
		claimSubject:  subject,
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature of an HS512 token against key and returns
// its subject and role claims.
func (i *Issuer) VerifyToken(tokenString, key string) (subject, role string, err error) {
	secret, err := i.decodeKey(key)
	if err != nil {
		return "", "", err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS512 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}
	subject, _ = claims[claimSubject].(string)
	role, _ = claims[claimRole].(string)
	return subject, role, nil
}

func (i *Issuer) decodeKey(key string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(key)
	if err == nil {
		return secret, nil
	}
	if !i.Lenient {
		return nil, fmt.Errorf("%w: %w", model.ErrKeyDecode, err)
	}
	log.Warn("Session key does not decode, signing with an empty key", "error", err)
	return []byte{}, nil
}
