package auth

import (
	"context"
	"testing"

	"github.com/atleticomaneiro/backend/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAdminVerifier(t *testing.T) {
	passwordHash, err := pkg.HashPassword("maneiro2025")
	require.NoError(t, err)

	verifier := NewStaticAdminVerifier(&Admin{
		ID:           "admin-id",
		Username:     "admin",
		PasswordHash: passwordHash,
	})

	user, err := verifier.Verify(context.Background(), "admin", "maneiro2025")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "admin-id", user.ID)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, RoleAdmin, user.Role)

	user, err = verifier.Verify(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Nil(t, user)

	user, err = verifier.Verify(context.Background(), "not-admin", "maneiro2025")
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Nil(t, user)

	assert.NoError(t, verifier.SignOut(context.Background()))
}
