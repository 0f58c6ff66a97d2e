package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	tokens := NewTokens("s3cret")

	raw, err := tokens.Sign("alice", time.Hour)
	require.NoError(t, err)

	user, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	raw, err := NewTokens("other").Sign("alice", time.Hour)
	require.NoError(t, err)

	_, err = NewTokens("s3cret").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokens("s3cret").Sign("alice", -time.Minute)
	require.NoError(t, err)
	_, err = NewTokens("s3cret").Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("s3cret").Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	_, err := NewTokens("").Sign("alice", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}
