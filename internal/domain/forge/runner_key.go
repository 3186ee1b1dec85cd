package forge

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/keystone/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const (
	runnerKeyScheme = "frg"
	runnerPrefixLen = 8
	bcryptCost      = 12
)

var (
	ErrRunnerKeyNotFound = shared.NewDomainError("RUNNER_KEY_NOT_FOUND", "Runner key not found")
	ErrRunnerKeyInvalid  = shared.NewDomainError("RUNNER_KEY_INVALID", "Runner key is invalid or revoked")
)

// RunnerKey authenticates an automated agent runner reporting results
type RunnerKey struct {
	shared.BaseEntity
	Name       string
	Prefix     string
	Hash       string
	CreatedBy  string
	LastUsedAt *time.Time
	RevokedAt  *time.Time
}

// NewRunnerKey generates a key and returns it with the plaintext token,
// which is never stored
func NewRunnerKey(name, createdBy string) (*RunnerKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, "", shared.NewDomainError("INVALID_NAME", "Runner key name must be 1 to 100 characters")
	}

	prefixBytes := make([]byte, runnerPrefixLen/2)
	if _, err := rand.Read(prefixBytes); err != nil {
		return nil, "", fmt.Errorf("generate runner key prefix: %w", err)
	}
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("generate runner key secret: %w", err)
	}
	prefix := hex.EncodeToString(prefixBytes)
	secret := base64.RawURLEncoding.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash runner key: %w", err)
	}

	k := &RunnerKey{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Prefix:     prefix,
		Hash:       string(hash),
		CreatedBy:  createdBy,
	}
	return k, fmt.Sprintf("%s_%s_%s", runnerKeyScheme, prefix, secret), nil
}

// ParseRunnerToken splits frg_{prefix}_{secret}
func ParseRunnerToken(token string) (prefix, secret string, err error) {
	parts := strings.SplitN(strings.TrimSpace(token), "_", 3)
	if len(parts) != 3 || parts[0] != runnerKeyScheme || len(parts[1]) != runnerPrefixLen || parts[2] == "" {
		return "", "", ErrRunnerKeyInvalid
	}
	return parts[1], parts[2], nil
}

// Verify checks the secret against the stored hash; revoked keys never verify
func (k *RunnerKey) Verify(secret string) bool {
	if k.IsRevoked() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(k.Hash), []byte(secret)) == nil
}

// IsRevoked reports whether the key was revoked
func (k *RunnerKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// Revoke disables the key
func (k *RunnerKey) Revoke(now time.Time) error {
	if k.IsRevoked() {
		return shared.NewDomainError("RUNNER_KEY_REVOKED", "Runner key is already revoked")
	}
	t := now.UTC()
	k.RevokedAt = &t
	k.UpdatedAt = t
	return nil
}
