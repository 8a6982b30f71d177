package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this-is-a-test-secret-of-32-chars!!"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, "lexivon", time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotID, gotRole, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "admin", gotRole)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(testSecret, "lexivon", -time.Minute)

	token, err := m.GenerateAccessToken(uuid.New(), "user")
	require.NoError(t, err)

	_, _, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret, "lexivon", time.Hour)
	other := NewJWTManager("another-secret-that-is-32-characters", "lexivon", time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "user")
	require.NoError(t, err)

	_, _, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongIssuer(t *testing.T) {
	m := NewJWTManager(testSecret, "lexivon", time.Hour)
	other := NewJWTManager(testSecret, "someone-else", time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "user")
	require.NoError(t, err)

	_, _, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_EmptyToken(t *testing.T) {
	m := NewJWTManager(testSecret, "lexivon", time.Hour)

	_, _, err := m.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("sekret-fjalëkalim")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret-fjalëkalim", hash)

	assert.True(t, h.Verify(hash, "sekret-fjalëkalim"))
	assert.False(t, h.Verify(hash, "wrong"))
	assert.False(t, h.Verify("not-a-hash", "sekret-fjalëkalim"))
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := NewPasswordHasher(4)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := h.Hash(string(long))
	assert.Error(t, err)
}
