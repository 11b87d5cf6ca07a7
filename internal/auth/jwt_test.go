package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestValidateHS256(t *testing.T) {
	jv, err := NewJWTValidator("HS256", testSecret, "")
	require.NoError(t, err)

	token := signHS256(t, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	sub, err := jv.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestValidateRejectsBadSignature(t *testing.T) {
	jv, err := NewJWTValidator("HS256", "a different secret", "")
	require.NoError(t, err)

	token := signHS256(t, jwt.MapClaims{"sub": "alice"})
	_, err = jv.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	jv, err := NewJWTValidator("HS256", testSecret, "")
	require.NoError(t, err)

	token := signHS256(t, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, err = jv.Validate(token)
	assert.Error(t, err)
}

func TestValidateRequiresSubject(t *testing.T) {
	jv, err := NewJWTValidator("HS256", testSecret, "")
	require.NoError(t, err)

	token := signHS256(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	_, err = jv.Validate(token)
	assert.ErrorContains(t, err, "subject")
}

func TestNewValidatorConfig(t *testing.T) {
	_, err := NewJWTValidator("HS256", "", "")
	assert.Error(t, err)

	_, err = NewJWTValidator("ES256", "x", "")
	assert.Error(t, err)
}
