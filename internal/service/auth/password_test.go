package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifierCompareErrors(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)
	v := NewBcryptVerifier()

	assert.NoError(t, v.Compare(string(hash), "correct-horse-battery"))
	assert.ErrorIs(t, v.Compare(string(hash), "wrong-password"), ErrInvalidCredentials)

	err = v.Compare("not-a-bcrypt-hash", "correct-horse-battery")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
