package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, exp, err := m.Issue("user-42")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	uid, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)
}

func TestVerify_ExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)

	token, _, err := m.Issue("user-42")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, _, err := issuer.Issue("user-42")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}
