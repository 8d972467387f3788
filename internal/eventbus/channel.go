package eventbus

import (
	"strings"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

// DefaultPrefix is the channel prefix used when none is configured.
const DefaultPrefix = "notifier"

// escaper keeps dimension values free of the segment separator and of the
// glob metacharacters understood by PSUBSCRIBE.
var escaper = strings.NewReplacer(
	"%", "%25",
	"/", "%2F",
	"*", "%2A",
	"?", "%3F",
	"[", "%5B",
	"]", "%5D",
	"\\", "%5C",
)

func operationSegment(op core.Operation) string {
	b, err := op.MarshalText()
	if err != nil {
		return ""
	}
	return string(b)
}

// ChannelFor returns the channel an event is published on:
// <prefix>/<entity_type>/<entity_id>/<operation>/<attribute_name>, unset values empty.
// The prefix is escaped like the values, so it never acts as a glob in patterns.
func ChannelFor(prefix string, ev core.Event) string {
	return strings.Join([]string{
		escaper.Replace(prefix),
		escaper.Replace(ev.EntityType),
		escaper.Replace(ev.EntityID),
		operationSegment(ev.Operation),
		escaper.Replace(ev.AttributeName),
	}, "/")
}

// PatternFor returns the PSUBSCRIBE pattern matching every channel of events under t.
func PatternFor(prefix string, t notifier.Topic) string {
	seg := func(v string) string {
		if v == "" {
			return "*"
		}
		return escaper.Replace(v)
	}
	op := "*"
	if t.Operation() != core.OperationAny {
		op = operationSegment(t.Operation())
	}
	return strings.Join([]string{
		escaper.Replace(prefix),
		seg(t.EntityType()),
		seg(t.EntityID()),
		op,
		seg(t.AttributeName()),
	}, "/")
}
