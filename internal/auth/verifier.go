package auth

import (
	"context"
	"errors"

	"github.com/atleticomaneiro/backend/pkg"
)

var ErrWrongCredentials = errors.New("wrong credentials")

// CredentialVerifier is the external credential-check collaborator.
// Any non-nil error is a failed login; ErrWrongCredentials marks a
// definite rejection, everything else is an unexpected failure.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*AdminUser, error)
	SignOut(ctx context.Context) error
}

type Admin struct {
	ID           string
	Username     string
	PasswordHash string
}

var _ CredentialVerifier = (*StaticAdminVerifier)(nil)

// StaticAdminVerifier checks credentials against the single configured
// admin account (bcrypt password hash, set via env at startup).
type StaticAdminVerifier struct {
	admin *Admin
}

func NewStaticAdminVerifier(admin *Admin) *StaticAdminVerifier {
	return &StaticAdminVerifier{
		admin: admin,
	}
}

func (v *StaticAdminVerifier) Verify(_ context.Context, username, password string) (*AdminUser, error) {
	if !pkg.CheckPasswordHash(password, v.admin.PasswordHash) {
		return nil, ErrWrongCredentials
	}
	if username != v.admin.Username {
		return nil, ErrWrongCredentials
	}

	return &AdminUser{
		ID:       v.admin.ID,
		Username: username,
		Role:     RoleAdmin,
	}, nil
}

func (v *StaticAdminVerifier) SignOut(_ context.Context) error {
	// nothing to revoke upstream for the static admin account
	return nil
}
