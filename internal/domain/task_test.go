package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(ownerID, "Buy groceries", "Milk and eggs")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, ownerID, task.UserID)
		assert.Equal(t, "Buy groceries", task.Title)
		assert.Equal(t, "Milk and eggs", task.Description)
		assert.False(t, task.Completed)
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("title and description are trimmed", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(ownerID, "  Buy groceries  ", "  Milk  ")
		require.NoError(t, err)
		assert.Equal(t, "Buy groceries", task.Title)
		assert.Equal(t, "Milk", task.Description)
	})

	t.Run("empty description is allowed", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(ownerID, "Buy groceries", "")
		require.NoError(t, err)
		assert.Empty(t, task.Description)
	})

	t.Run("whitespace-only title is rejected", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(ownerID, "   ", "")
		assert.Nil(t, task)
		assert.ErrorIs(t, err, ErrEmptyTaskTitle)
	})

	t.Run("nil owner is rejected", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(uuid.Nil, "Buy groceries", "")
		assert.Nil(t, task)
		assert.ErrorIs(t, err, ErrEmptyTaskOwner)
	})
}

func TestTaskIsOwnedBy(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	task, err := NewTask(ownerID, "Buy groceries", "")
	require.NoError(t, err)

	assert.True(t, task.IsOwnedBy(ownerID))
	assert.False(t, task.IsOwnedBy(uuid.New()))
}
