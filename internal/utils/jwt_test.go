package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "CUSTOMER", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "ADMIN", 15)
	require.NoError(t, err)
	_, err = jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}

func TestSessionTokenHashing(t *testing.T) {
	st, err := NewSessionToken(72)
	require.NoError(t, err)
	assert.Len(t, st.Raw, 96)
	assert.WithinDuration(t, time.Now().UTC().Add(72*time.Hour), st.Exp, 5*time.Second)

	// Deterministic hash, never equal to the raw token.
	assert.Equal(t, HashSessionRaw(st.Raw), HashSessionRaw(st.Raw))
	assert.NotEqual(t, st.Raw, HashSessionRaw(st.Raw))

	other, err := NewSessionToken(72)
	require.NoError(t, err)
	assert.NotEqual(t, st.Raw, other.Raw)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2hunter2"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
