package authgate

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Token consumption is a compare-and-swap: the UPDATE is guarded on the
// stored token so concurrent attempts with the same link race for a single
// row change. Zero rows affected means the token was wrong or already used.
var ConsumeVerifyTokenSQL = `UPDATE "users" AS "usr"
SET
	"is_verified" = TRUE,
	"verify_token" = '',
	"verify_token_expires_at" = NULL,
	"updated_at" = ?
WHERE
	"usr"."email" = ?
AND "usr"."verify_token" = ?
AND "usr"."verify_token" <> '';`

var ConsumeResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"reset_token" = '',
	"reset_token_expires_at" = NULL,
	"updated_at" = ?
WHERE
	"usr"."email" = ?
AND "usr"."reset_token" = ?
AND "usr"."reset_token" <> '';`

var SetResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"reset_token" = ?,
	"reset_token_expires_at" = ?,
	"updated_at" = ?
WHERE
	"usr"."id" = ?;`

var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"usr"."id" = ?;`

type Users interface {
	repository.Repository[*User]
	UserStore

	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ UserStore = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user lookup failed").
			WithTextCode(TextCodeInternal)
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	created, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserConflict
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user").
			WithTextCode(TextCodeInternal)
	}

	return created, nil
}

func (a *users) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	res, err := a.db.ExecContext(ctx, SetResetTokenSQL, token, expiresAt, time.Now(), id.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to set reset token").
			WithTextCode(TextCodeInternal)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

func (a *users) ConsumeVerifyToken(ctx context.Context, email, token string) (bool, error) {
	res, err := a.db.ExecContext(ctx, ConsumeVerifyTokenSQL, time.Now(), email, token)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verify token").
			WithTextCode(TextCodeInternal)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verify token").
			WithTextCode(TextCodeInternal)
	}

	return affected > 0, nil
}

func (a *users) ConsumeResetToken(ctx context.Context, email, token string) (bool, error) {
	res, err := a.db.ExecContext(ctx, ConsumeResetTokenSQL, time.Now(), email, token)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token").
			WithTextCode(TextCodeInternal)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token").
			WithTextCode(TextCodeInternal)
	}

	return affected > 0, nil
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := a.db.ExecContext(ctx, ResetUserPasswordSQL, passwordHash, time.Now(), id.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password").
			WithTextCode(TextCodeInternal)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// isUniqueViolation matches the driver-specific messages for unique
// constraint failures (sqlite and postgres).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
