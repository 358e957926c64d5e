package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupApprove(t *testing.T) {
	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	s := Signup{Status: SignupPending}

	require.NoError(t, s.Approve(at))
	assert.Equal(t, SignupApproved, s.Status)
	require.NotNil(t, s.ReviewedAt)
	assert.Equal(t, at, *s.ReviewedAt)

	assert.ErrorIs(t, s.Approve(at), ErrSignupNotPending)
	assert.ErrorIs(t, s.Reject(at, "late"), ErrSignupNotPending)
}

func TestSignupReject(t *testing.T) {
	s := Signup{Status: SignupPending}

	require.NoError(t, s.Reject(time.Now(), "date full"))
	assert.Equal(t, SignupRejected, s.Status)
	assert.Equal(t, "date full", s.RejectReason)
}
