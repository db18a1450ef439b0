package token

import (
	"testing"
	"time"

	autherrors "go-leaveflow/internal/auth/errors"

	"github.com/stretchr/testify/assert"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)

	signed, exp, err := m.Issue(42, "manager")
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(signed)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

func TestManager_Parse_Failures(t *testing.T) {
	m := NewManager("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		signed, _, err := NewManager("other", time.Hour).Issue(1, "admin")
		assert.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewManager("secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		signed, _, err := old.Issue(1, "admin")
		assert.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}
