package auth_test

import (
	"testing"

	"github.com/rajayush01/JobBoard/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	tm := auth.NewTokenManager("unit-test-secret")

	token, err := tm.Sign(auth.Identity{UserID: 42, Role: "employer"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "employer", id.Role)
}

func TestVerifyRejectsTamperedTokens(t *testing.T) {
	tm := auth.NewTokenManager("unit-test-secret")

	token, err := tm.Sign(auth.Identity{UserID: 42, Role: "jobseeker"})
	require.NoError(t, err)

	t.Run("Wrong secret", func(t *testing.T) {
		other := auth.NewTokenManager("different-secret")
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Garbage input", func(t *testing.T) {
		_, err := tm.Verify("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Truncated token", func(t *testing.T) {
		_, err := tm.Verify(token[:len(token)-5])
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
