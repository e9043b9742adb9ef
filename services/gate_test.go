package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateHappyPathNewUser(t *testing.T) {
	g := NewGate()
	assert.Equal(t, "signIn", g.Step())

	require.NoError(t, g.RequestOTP("a@b.test"))
	assert.Equal(t, "otpPending", g.Step())

	require.NoError(t, g.IdentityConfirmed(false, ""))
	assert.Equal(t, "setPassword", g.Step())

	require.NoError(t, g.PasswordSet())
	assert.Equal(t, "continue", g.Step())
}

func TestGateHappyPathReturningUser(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.RequestOTP("a@b.test"))
	require.NoError(t, g.IdentityConfirmed(true, "a1b2"))

	assert.Equal(t, "verify", g.Step())
	verify, ok := g.State().(GateVerify)
	require.True(t, ok)
	assert.Equal(t, "a1b2", verify.Salt)

	require.NoError(t, g.PasswordVerified())
	assert.Equal(t, "continue", g.Step())
}

func TestGateAnonymousSkipsOTP(t *testing.T) {
	g := NewGate()
	require.NoError(t, g.IdentityConfirmed(false, ""))
	assert.Equal(t, "setPassword", g.Step())
}

func TestGateRejectsInvalidTransitions(t *testing.T) {
	t.Run("cannot verify before identity", func(t *testing.T) {
		g := NewGate()
		assert.ErrorIs(t, g.PasswordVerified(), ErrInvalidTransition)
		assert.ErrorIs(t, g.PasswordSet(), ErrInvalidTransition)
	})

	t.Run("cannot request OTP twice", func(t *testing.T) {
		g := NewGate()
		require.NoError(t, g.RequestOTP("a@b.test"))
		assert.ErrorIs(t, g.RequestOTP("a@b.test"), ErrInvalidTransition)
	})

	t.Run("cannot set password when one exists", func(t *testing.T) {
		g := NewGate()
		require.NoError(t, g.IdentityConfirmed(true, "a1b2"))
		assert.ErrorIs(t, g.PasswordSet(), ErrInvalidTransition)
	})

	t.Run("cannot verify when none exists", func(t *testing.T) {
		g := NewGate()
		require.NoError(t, g.IdentityConfirmed(false, ""))
		assert.ErrorIs(t, g.PasswordVerified(), ErrInvalidTransition)
	})

	t.Run("completed gate is terminal", func(t *testing.T) {
		g := NewGate()
		require.NoError(t, g.IdentityConfirmed(false, ""))
		require.NoError(t, g.PasswordSet())
		assert.ErrorIs(t, g.IdentityConfirmed(false, ""), ErrInvalidTransition)
		assert.ErrorIs(t, g.RequestOTP("a@b.test"), ErrInvalidTransition)
	})
}

func TestGateFor(t *testing.T) {
	assert.Equal(t, "signIn", GateFor(false, false, false, "").Step())
	assert.Equal(t, "setPassword", GateFor(true, false, false, "").Step())
	assert.Equal(t, "verify", GateFor(true, false, true, "a1b2").Step())
	assert.Equal(t, "continue", GateFor(true, true, true, "a1b2").Step())
	assert.Equal(t, "continue", GateFor(true, true, false, "").Step())
}
