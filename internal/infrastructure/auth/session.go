package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/keystone/backend/internal/infrastructure/config"
)

var (
	// ErrTokenMissing is returned when a request carries no session token
	ErrTokenMissing = errors.New("session token missing")
	// ErrTokenExpired is returned when the session token has expired
	ErrTokenExpired = errors.New("session token has expired")
	// ErrTokenInvalid is returned when the token signature or claims are invalid
	ErrTokenInvalid = errors.New("session token is invalid")
	// ErrTokenRevoked is returned when the session id has been revoked
	ErrTokenRevoked = errors.New("session has been revoked")
)

// SessionClaims are the claims the auth provider puts in its session tokens
type SessionClaims struct {
	jwt.RegisteredClaims
	Email     string          `json:"email,omitempty"`
	SessionID string          `json:"sid,omitempty"`
	Role      string          `json:"role,omitempty"`
	Metadata  SessionMetadata `json:"metadata,omitempty"`
}

// SessionMetadata holds provider-side public metadata
type SessionMetadata struct {
	Role string `json:"role,omitempty"`
}

// Session is the verified identity of a request
type Session struct {
	UserID    string
	Email     string
	SessionID string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the session carries the given role
func (s *Session) HasRole(role string) bool {
	return s != nil && role != "" && s.Role == role
}

// RemainingTTL returns how long the session stays valid
func (s *Session) RemainingTTL() time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	if ttl := time.Until(s.ExpiresAt); ttl > 0 {
		return ttl
	}
	return 0
}

// SessionVerifier verifies session tokens issued by the third-party auth provider.
// It never issues tokens itself.
type SessionVerifier struct {
	hmacSecret []byte
	publicKey  *rsa.PublicKey
	parser     *jwt.Parser
}

// NewSessionVerifier builds a verifier from the auth configuration. An RS256
// public key takes precedence over the HS256 shared secret.
func NewSessionVerifier(cfg config.AuthConfig) (*SessionVerifier, error) {
	v := &SessionVerifier{}
	methods := []string{jwt.SigningMethodHS256.Alg()}

	if cfg.PublicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse auth public key: %w", err)
		}
		v.publicKey = key
		methods = []string{jwt.SigningMethodRS256.Alg()}
	} else if cfg.JWTSecret != "" {
		v.hmacSecret = []byte(cfg.JWTSecret)
	} else {
		return nil, errors.New("auth: either a public key or a jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithLeeway(cfg.ClockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	v.parser = jwt.NewParser(opts...)

	return v, nil
}

// Verify parses and validates a session token
func (v *SessionVerifier) Verify(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &SessionClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if v.publicKey != nil {
			return v.publicKey, nil
		}
		return v.hmacSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	session := &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		SessionID: claims.SessionID,
		Role:      claims.Role,
	}
	if session.Role == "" {
		session.Role = claims.Metadata.Role
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
