package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("maneiro2025")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("maneiro2025", passwordHash))
	assert.False(t, CheckPasswordHash("maneiro2024", passwordHash))
	assert.False(t, CheckPasswordHash("maneiro2025", "not-a-bcrypt-hash"))
}
