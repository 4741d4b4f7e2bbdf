package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractUserID(t *testing.T) {
	token, err := GenerateToken("u1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ExtractUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("u1", -time.Minute)
	require.NoError(t, err)

	_, err = ExtractUserIDFromToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ExtractUserIDFromToken("not-a-token")
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("u1", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ExtractUserIDFromToken(tampered)
	assert.Error(t, err)
}
