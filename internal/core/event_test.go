package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("task", "T1", OperationUpdate, "status", "done")
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.CreatedAt.IsZero())
	assert.Equal(t, "task", ev.EntityType)
	assert.Equal(t, "T1", ev.EntityID)
	assert.Equal(t, OperationUpdate, ev.Operation)
	assert.Equal(t, "status", ev.AttributeName)
	assert.Equal(t, "done", ev.AttributeValue)
	assert.NoError(t, ev.Validate())

	other, err := NewEvent("task", "T1", OperationUpdate, "status", "done")
	require.NoError(t, err)
	assert.NotEqual(t, ev.ID, other.ID)
}

func TestNewEventRejectsAttributeOnDeletion(t *testing.T) {
	_, err := NewEvent("scenario", "S1", OperationDeletion, "name", nil)
	assert.ErrorIs(t, err, ErrUnexpectedAttribute)
}
