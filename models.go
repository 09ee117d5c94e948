package authgate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Verification and reset tokens live on the record
// itself: a non empty token column plus its expiry column means a pending
// request, and both are cleared together when the token is consumed.
type User struct {
	bun.BaseModel        `bun:"table:users,alias:usr"`
	ID                   uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name                 string     `bun:"name,notnull" json:"name,omitempty"`
	Email                string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash         string     `bun:"password_hash" json:"-"`
	IsVerified           bool       `bun:"is_verified" json:"is_verified,omitempty"`
	VerifyToken          string     `bun:"verify_token" json:"-"`
	VerifyTokenExpiresAt *time.Time `bun:"verify_token_expires_at,nullzero" json:"-"`
	ResetToken           string     `bun:"reset_token" json:"-"`
	ResetTokenExpiresAt  *time.Time `bun:"reset_token_expires_at,nullzero" json:"-"`
	CreatedAt            *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt            *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPendingVerification reports whether an unconsumed verification token
// is stored on the record.
func (u *User) HasPendingVerification() bool {
	return u.VerifyToken != "" && u.VerifyTokenExpiresAt != nil
}

// HasPendingReset reports whether an unconsumed reset token is stored on
// the record.
func (u *User) HasPendingReset() bool {
	return u.ResetToken != "" && u.ResetTokenExpiresAt != nil
}

var _ Identity = (*authIdentity)(nil)

type authIdentity struct {
	id    string
	email string
	name  string
}

func (i authIdentity) ID() string    { return i.id }
func (i authIdentity) Email() string { return i.email }
func (i authIdentity) Name() string  { return i.name }

// NewIdentityFromUser adapts a user record to the Identity interface.
func NewIdentityFromUser(u *User) Identity {
	if u == nil {
		return authIdentity{}
	}
	return authIdentity{
		id:    u.ID.String(),
		email: u.Email,
		name:  u.Name,
	}
}
