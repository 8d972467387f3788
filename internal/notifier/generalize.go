package notifier

import "entity-notifier/internal/core"

// Dimension bits used to select which fields of a topic become wildcards.
const (
	dimEntityType uint = 1 << iota
	dimEntityID
	dimOperation
	dimAttributeName

	dimCount = 4
)

// without returns a copy of t with the dimensions in mask cleared.
func (t Topic) without(mask uint) Topic {
	if mask&dimEntityType != 0 {
		t.entityType = ""
	}
	if mask&dimEntityID != 0 {
		t.entityID = ""
	}
	if mask&dimOperation != 0 {
		t.operation = core.OperationAny
	}
	if mask&dimAttributeName != 0 {
		t.attributeName = ""
	}
	return t
}

// Generalizations returns every pattern that matches the exact topic t: t with
// each of the 16 subsets of its dimensions cleared. The exact topic comes first.
// Dimensions already unset in t make several subsets collapse to the same topic;
// each distinct topic appears once.
func Generalizations(t Topic) []Topic {
	out := make([]Topic, 0, 1<<dimCount)
	seen := make(map[Topic]struct{}, 1<<dimCount)
	for mask := uint(0); mask < 1<<dimCount; mask++ {
		g := t.without(mask)
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
