package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-notifier/internal/core"
)

func TestNewTopic(t *testing.T) {
	tp, err := NewTopic(WithEntityType("task"), WithOperation(core.OperationUpdate), WithAttributeName("status"))
	require.NoError(t, err)
	assert.Equal(t, "task", tp.EntityType())
	assert.Equal(t, "", tp.EntityID())
	assert.Equal(t, core.OperationUpdate, tp.Operation())
	assert.Equal(t, "status", tp.AttributeName())
	assert.False(t, tp.IsWildcard())

	all, err := NewTopic()
	require.NoError(t, err)
	assert.True(t, all.IsWildcard())
	assert.Equal(t, Topic{}, all)
}

func TestNewTopicRejectsConflicts(t *testing.T) {
	_, err := NewTopic(WithOperation(core.OperationCreation), WithAttributeName("name"))
	assert.ErrorIs(t, err, core.ErrUnexpectedAttribute)

	_, err = NewTopic(WithOperation(core.Operation(99)))
	assert.ErrorIs(t, err, core.ErrUnknownOperation)

	assert.Panics(t, func() { MustTopic(WithOperation(core.Operation(99))) })
}

func TestTopicEqualityIsStructural(t *testing.T) {
	a := MustTopic(WithEntityType("task"))
	b := MustTopic(WithEntityType("task"))
	c := MustTopic(WithEntityType("task"), WithEntityID("T1"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	m := map[Topic]int{a: 1}
	m[b]++
	m[c]++
	assert.Equal(t, 2, m[a])
	assert.Len(t, m, 2)
}

func TestTopicMatches(t *testing.T) {
	ev := core.Event{EntityType: "task", EntityID: "T1", Operation: core.OperationUpdate, AttributeName: "status"}
	assert.True(t, Topic{}.Matches(ev))
	assert.True(t, TopicOf(ev).Matches(ev))
	assert.True(t, MustTopic(WithEntityID("T1")).Matches(ev))
	assert.False(t, MustTopic(WithEntityType("job"), WithEntityID("T1")).Matches(ev))
	assert.False(t, MustTopic(WithOperation(core.OperationDeletion)).Matches(ev))
}

func TestTopicString(t *testing.T) {
	tp := MustTopic(WithEntityType("scenario"), WithOperation(core.OperationDeletion))
	assert.Equal(t, "entity_type=scenario entity_id=* operation=DELETION attribute_name=*", tp.String())
}

func TestTopicJSON(t *testing.T) {
	tp := MustTopic(WithEntityType("task"), WithOperation(core.OperationUpdate), WithAttributeName("status"))
	b, err := json.Marshal(tp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"entity_type":"task","operation":"UPDATE","attribute_name":"status"}`, string(b))

	var got Topic
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, tp, got)

	err = json.Unmarshal([]byte(`{"operation":"DELETION","attribute_name":"x"}`), &got)
	assert.Error(t, err)
}

func TestDecodeTopic(t *testing.T) {
	got, err := DecodeTopic([]byte(`{"entity_type":"task","operation":"update","attribute_name":"status"}`))
	require.NoError(t, err)
	assert.Equal(t, MustTopic(WithEntityType("task"), WithOperation(core.OperationUpdate), WithAttributeName("status")), got)

	all, err := DecodeTopic([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, all.IsWildcard())

	_, err = DecodeTopic([]byte(`{"operation":"DELETION","attribute_name":"x"}`))
	assert.ErrorIs(t, err, core.ErrUnexpectedAttribute)

	_, err = DecodeTopic([]byte(`{"operation":"RENAME"}`))
	assert.ErrorIs(t, err, core.ErrUnknownOperation)

	var direct Topic
	err = direct.UnmarshalJSON([]byte(`{"operation":"CREATION","attribute_name":"x"}`))
	assert.ErrorIs(t, err, core.ErrUnexpectedAttribute)

	_, err = DecodeTopic([]byte(`not json`))
	assert.Error(t, err)
}
