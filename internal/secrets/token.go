package secrets

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the engine's secrets in the OS keychain.
	KeyringService = "jobtrack"
)

// The engine API token lives in the OS keychain, never in config or the DB.
// The UI stores it once and sends it as a bearer token on every request.

func tokenAccount(owner string) string {
	return fmt.Sprintf("jobtrack:api-token:%s", owner)
}

func GetAPIToken(owner string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", errors.New("owner is empty")
	}
	tok, err := keyring.Get(KeyringService, tokenAccount(owner))
	if err != nil || strings.TrimSpace(tok) == "" {
		return "", errors.New("API token not found (set it via /api/secrets/token)")
	}
	return tok, nil
}

func SetAPIToken(owner, token string) error {
	if strings.TrimSpace(owner) == "" {
		return errors.New("owner is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, tokenAccount(owner), token)
}

func DeleteAPIToken(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return errors.New("owner is empty")
	}
	return keyring.Delete(KeyringService, tokenAccount(owner))
}

// VerifyAPIToken compares in constant time.
func VerifyAPIToken(owner, presented string) bool {
	stored, err := GetAPIToken(owner)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
