package core

import (
	"time"

	"github.com/google/uuid"
)

// Event describes a change to a tracked entity.
// Empty string fields and OperationAny mean the dimension is not set.
// Events are values: once built they are passed around by copy and never mutated.
type Event struct {
	ID             string      `json:"id"`
	EntityType     string      `json:"entity_type,omitempty"`
	EntityID       string      `json:"entity_id,omitempty"`
	Operation      Operation   `json:"operation,omitempty"`
	AttributeName  string      `json:"attribute_name,omitempty"`
	AttributeValue interface{} `json:"attribute_value,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewEvent builds a validated Event with a fresh ID and creation time.
func NewEvent(entityType, entityID string, op Operation, attributeName string, attributeValue interface{}) (Event, error) {
	if err := ValidateDimensions(op, attributeName); err != nil {
		return Event{}, err
	}
	return Event{
		ID:             uuid.NewString(),
		EntityType:     entityType,
		EntityID:       entityID,
		Operation:      op,
		AttributeName:  attributeName,
		AttributeValue: attributeValue,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Validate reports whether the event dimensions form a legal combination.
func (e Event) Validate() error {
	return ValidateDimensions(e.Operation, e.AttributeName)
}
