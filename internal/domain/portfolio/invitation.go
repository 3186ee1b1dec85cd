package portfolio

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/shared"
)

// InvitationStatus is the lifecycle state of an invitation
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusExpired  InvitationStatus = "expired"
	InvitationStatusRevoked  InvitationStatus = "revoked"
)

// tokenBytes is the entropy of an invitation token (256 bits)
const tokenBytes = 32

// Invitation errors
var (
	ErrInvitationNotFound    = shared.NewDomainError("INVITATION_NOT_FOUND", "Invitation not found")
	ErrInvitationExpired     = shared.NewDomainError("INVITATION_EXPIRED", "Invitation has expired")
	ErrInvitationRevoked     = shared.NewDomainError("INVITATION_REVOKED", "Invitation has been revoked")
	ErrInvitationAlreadyUsed = shared.NewDomainError("INVITATION_ALREADY_USED", "Invitation has already been used")
	ErrAlreadyMember         = shared.NewDomainError("ALREADY_MEMBER", "User is already a member of this portfolio")
)

// Invitation grants its bearer membership of a portfolio. Only the SHA-256
// hash of the token is stored.
type Invitation struct {
	shared.TenantAggregateRoot
	Email      string
	Role       Role
	TokenHash  string
	Status     InvitationStatus
	ExpiresAt  time.Time
	AcceptedBy string
	AcceptedAt *time.Time
	RevokedAt  *time.Time
}

// NewInvitation issues an invitation and returns it with the plaintext token.
// The token is shown once and cannot be recovered from the stored invitation.
func NewInvitation(portfolioID uuid.UUID, email string, role Role, invitedBy string, now time.Time, ttl time.Duration) (*Invitation, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, "", shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if role != RoleManager && role != RoleViewer {
		return nil, "", shared.NewDomainError("INVALID_ROLE", "Invitations can grant the manager or viewer role only")
	}
	if ttl <= 0 {
		return nil, "", shared.NewDomainError("INVALID_TTL", "Invitation lifetime must be positive")
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, "", err
	}

	inv := &Invitation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(portfolioID, invitedBy),
		Email:               email,
		Role:                role,
		TokenHash:           HashToken(token),
		Status:              InvitationStatusPending,
		ExpiresAt:           now.Add(ttl).UTC(),
	}
	return inv, token, nil
}

// GenerateToken returns a new random URL-safe token
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex SHA-256 digest under which a token is stored
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsExpiredAt reports whether the invitation has lapsed at now.
// An invitation is valid strictly before its expiry instant.
func (i *Invitation) IsExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Validate checks that the invitation can still be accepted at now
func (i *Invitation) Validate(now time.Time) error {
	switch i.Status {
	case InvitationStatusAccepted:
		return ErrInvitationAlreadyUsed
	case InvitationStatusRevoked:
		return ErrInvitationRevoked
	case InvitationStatusExpired:
		return ErrInvitationExpired
	}
	if i.IsExpiredAt(now) {
		return ErrInvitationExpired
	}
	return nil
}

// Accept marks the invitation as used by userID
func (i *Invitation) Accept(userID string, now time.Time) error {
	if err := i.Validate(now); err != nil {
		return err
	}
	if userID == "" {
		return shared.NewDomainError("INVALID_USER", "User id is required")
	}
	at := now.UTC()
	i.Status = InvitationStatusAccepted
	i.AcceptedBy = userID
	i.AcceptedAt = &at
	i.IncrementVersion()
	return nil
}

// Revoke cancels a pending invitation
func (i *Invitation) Revoke(now time.Time) error {
	if i.Status != InvitationStatusPending {
		return shared.NewDomainErrorf("INVALID_STATE", "Only pending invitations can be revoked, current status: %s", i.Status)
	}
	at := now.UTC()
	i.Status = InvitationStatusRevoked
	i.RevokedAt = &at
	i.IncrementVersion()
	return nil
}

// MarkExpired records that a pending invitation lapsed
func (i *Invitation) MarkExpired() {
	if i.Status == InvitationStatusPending {
		i.Status = InvitationStatusExpired
		i.IncrementVersion()
	}
}
