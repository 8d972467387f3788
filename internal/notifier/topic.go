package notifier

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"entity-notifier/internal/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Topic is a comparable pattern over the four event dimensions.
// Empty strings and core.OperationAny are wildcards. The zero Topic matches every event.
//
// Equality is structural: a wildcard dimension only equals another wildcard.
// Matching across wildcard levels is done by the Notifier through Generalizations.
type Topic struct {
	entityType    string
	entityID      string
	operation     core.Operation
	attributeName string
}

// TopicOption sets one dimension of a Topic.
type TopicOption func(*Topic)

// WithEntityType restricts the topic to one entity type.
func WithEntityType(entityType string) TopicOption {
	return func(t *Topic) { t.entityType = entityType }
}

// WithEntityID restricts the topic to one entity instance.
func WithEntityID(entityID string) TopicOption {
	return func(t *Topic) { t.entityID = entityID }
}

// WithOperation restricts the topic to one operation.
func WithOperation(op core.Operation) TopicOption {
	return func(t *Topic) { t.operation = op }
}

// WithAttributeName restricts the topic to updates of one attribute.
func WithAttributeName(name string) TopicOption {
	return func(t *Topic) { t.attributeName = name }
}

// NewTopic builds a Topic from options. Unset dimensions stay wildcards.
// Conflicting dimensions are rejected here rather than at match time.
func NewTopic(opts ...TopicOption) (Topic, error) {
	var t Topic
	for _, opt := range opts {
		opt(&t)
	}
	if err := core.ValidateDimensions(t.operation, t.attributeName); err != nil {
		return Topic{}, fmt.Errorf("invalid topic: %w", err)
	}
	return t, nil
}

// MustTopic is like NewTopic but panics on invalid options.
func MustTopic(opts ...TopicOption) Topic {
	t, err := NewTopic(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// TopicOf returns the exact topic of an event.
func TopicOf(ev core.Event) Topic {
	return Topic{
		entityType:    ev.EntityType,
		entityID:      ev.EntityID,
		operation:     ev.Operation,
		attributeName: ev.AttributeName,
	}
}

// EntityType returns the entity type, empty when any type matches.
func (t Topic) EntityType() string { return t.entityType }

// EntityID returns the entity id, empty when any instance matches.
func (t Topic) EntityID() string { return t.entityID }

// Operation returns the operation, core.OperationAny when any operation matches.
func (t Topic) Operation() core.Operation { return t.operation }

// AttributeName returns the attribute name, empty when any attribute matches.
func (t Topic) AttributeName() string { return t.attributeName }

// IsWildcard reports whether every dimension is a wildcard.
func (t Topic) IsWildcard() bool { return t == Topic{} }

// Matches reports whether ev falls under the pattern t.
func (t Topic) Matches(ev core.Event) bool {
	return (t.entityType == "" || t.entityType == ev.EntityType) &&
		(t.entityID == "" || t.entityID == ev.EntityID) &&
		(t.operation == core.OperationAny || t.operation == ev.Operation) &&
		(t.attributeName == "" || t.attributeName == ev.AttributeName)
}

// String renders the topic with "*" for wildcard dimensions.
func (t Topic) String() string {
	return fmt.Sprintf("entity_type=%s entity_id=%s operation=%s attribute_name=%s",
		orAny(t.entityType), orAny(t.entityID), t.operation, orAny(t.attributeName))
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// MarshalZerologObject lets a Topic be logged with zerolog's Object.
func (t Topic) MarshalZerologObject(e *zerolog.Event) {
	e.Str("entity_type", orAny(t.entityType)).
		Str("entity_id", orAny(t.entityID)).
		Str("operation", t.operation.String()).
		Str("attribute_name", orAny(t.attributeName))
}

type topicJSON struct {
	EntityType    string         `json:"entity_type,omitempty"`
	EntityID      string         `json:"entity_id,omitempty"`
	Operation     core.Operation `json:"operation,omitempty"`
	AttributeName string         `json:"attribute_name,omitempty"`
}

// MarshalJSON encodes the concrete dimensions; wildcards are omitted.
func (t Topic) MarshalJSON() ([]byte, error) {
	return json.Marshal(topicJSON{
		EntityType:    t.entityType,
		EntityID:      t.entityID,
		Operation:     t.operation,
		AttributeName: t.attributeName,
	})
}

// topicInput mirrors topicJSON with the operation kept as text, so that an
// unknown operation surfaces as core.ErrUnknownOperation from DecodeTopic.
type topicInput struct {
	EntityType    string `json:"entity_type"`
	EntityID      string `json:"entity_id"`
	Operation     string `json:"operation"`
	AttributeName string `json:"attribute_name"`
}

// DecodeTopic decodes and validates a JSON topic. Validation failures wrap
// core.ErrUnknownOperation or core.ErrUnexpectedAttribute.
func DecodeTopic(b []byte) (Topic, error) {
	var raw topicInput
	if err := json.Unmarshal(b, &raw); err != nil {
		return Topic{}, err
	}
	op, err := core.ParseOperation(raw.Operation)
	if err != nil {
		return Topic{}, fmt.Errorf("invalid topic: %w", err)
	}
	return NewTopic(
		WithEntityType(raw.EntityType),
		WithEntityID(raw.EntityID),
		WithOperation(op),
		WithAttributeName(raw.AttributeName),
	)
}

// UnmarshalJSON decodes and validates a topic. When called through a jsoniter
// decoder the returned error is flattened to text; use DecodeTopic to keep it.
func (t *Topic) UnmarshalJSON(b []byte) error {
	parsed, err := DecodeTopic(b)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
