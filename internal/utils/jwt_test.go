package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", "ms-jones", "teacher", 30, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "ms-jones", claims.Subject)
	assert.Equal(t, RoleTeacher, claims.Role)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	good, err := NewAccessToken("secret", "x", RoleTeacher, 5, time.Now())
	require.NoError(t, err)
	_, err = ParseAccessToken("other", good.Token)
	assert.Error(t, err, "wrong secret")

	expired, err := NewAccessToken("secret", "x", RoleTeacher, 5, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "role": RoleTeacher})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", raw)
	assert.Error(t, err, "alg none")

	_, err = NewAccessToken("", "x", RoleTeacher, 5, time.Now())
	assert.ErrorIs(t, err, ErrEmptySecret)
}
