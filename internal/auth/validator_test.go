package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestToken(t *testing.T, user *AdminUser, issuedAt time.Time) string {
	t.Helper()
	token, err := EncodeToken(user, issuedAt)
	require.NoError(t, err)
	return token
}

func TestValidator_IsValid(t *testing.T) {
	validator := NewValidator()
	user := &AdminUser{ID: "admin-id", Username: "admin", Role: RoleAdmin}
	token := validTestToken(t, user, time.Now())

	assert.True(t, validator.IsValid(user, token))
}

func TestValidator_IsValid_MissingInputs(t *testing.T) {
	validator := NewValidator()
	user := &AdminUser{ID: "admin-id", Username: "admin", Role: RoleAdmin}
	token := validTestToken(t, user, time.Now())

	assert.False(t, validator.IsValid(nil, token))
	assert.False(t, validator.IsValid(user, ""))
	assert.False(t, validator.IsValid(nil, ""))
}

func TestValidator_IsValid_MalformedToken(t *testing.T) {
	validator := NewValidator()
	user := &AdminUser{ID: "admin-id", Username: "admin", Role: RoleAdmin}

	assert.False(t, validator.IsValid(user, "definitely.not a.token"))
}

func TestValidator_IsValid_Expired(t *testing.T) {
	validator := NewValidator()
	user := &AdminUser{ID: "admin-id", Username: "admin", Role: RoleAdmin}

	// issued 25h ago, expired one hour ago
	token := validTestToken(t, user, time.Now().Add(-25*time.Hour))
	assert.False(t, validator.IsValid(user, token))

	// expired one second ago
	validator.NowFunc = func() time.Time {
		return time.Now().Add(SessionTTL + time.Second)
	}
	token = validTestToken(t, user, time.Now())
	assert.False(t, validator.IsValid(user, token))
}

func TestValidator_IsValid_UserRecord(t *testing.T) {
	validator := NewValidator()

	for caseName, user := range map[string]*AdminUser{
		"role-not-admin": {ID: "admin-id", Username: "admin", Role: "editor"},
		"role-empty":     {ID: "admin-id", Username: "admin"},
		"id-empty":       {Username: "admin", Role: RoleAdmin},
		"username-empty": {ID: "admin-id", Role: RoleAdmin},
	} {
		t.Run(caseName, func(t *testing.T) {
			// token itself is fine and not expired
			token := validTestToken(t, &AdminUser{ID: "admin-id", Username: "admin", Role: RoleAdmin}, time.Now())
			assert.False(t, validator.IsValid(user, token))
		})
	}
}
