package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, err := tm.Issue("session-key-1")
	require.NoError(t, err)

	key, err := tm.SessionKey(token)
	require.NoError(t, err)
	assert.Equal(t, "session-key-1", key)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("secret-a", 60).Issue("session-key-1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).SessionKey(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.SessionKey("not-a-token")
	assert.Error(t, err)
}
