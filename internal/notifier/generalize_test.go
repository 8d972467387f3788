package notifier

import (
	"testing"

	"entity-notifier/internal/core"
)

func TestGeneralizationsFullLattice(t *testing.T) {
	ev := core.Event{EntityType: "task", EntityID: "T1", Operation: core.OperationUpdate, AttributeName: "status"}
	exact := TopicOf(ev)

	gens := Generalizations(exact)
	if len(gens) != 16 {
		t.Fatalf("expected 16 topics, got %d", len(gens))
	}
	if gens[0] != exact {
		t.Fatalf("expected exact topic first, got %s", gens[0])
	}

	seen := map[Topic]bool{}
	for _, g := range gens {
		if seen[g] {
			t.Fatalf("duplicate %s", g)
		}
		seen[g] = true
		if !g.Matches(ev) {
			t.Fatalf("%s should match", g)
		}
	}
	if !seen[Topic{}] {
		t.Fatal("full wildcard missing")
	}
}

func TestGeneralizationsCoverEveryMatchingPattern(t *testing.T) {
	ev := core.Event{EntityType: "task", EntityID: "T1", Operation: core.OperationUpdate, AttributeName: "status"}
	gens := map[Topic]bool{}
	for _, g := range Generalizations(TopicOf(ev)) {
		gens[g] = true
	}

	// Every combination of concrete-or-wildcard per dimension that matches the event.
	for _, et := range []string{"", "task", "job"} {
		for _, id := range []string{"", "T1", "T2"} {
			for _, op := range []core.Operation{core.OperationAny, core.OperationUpdate, core.OperationDeletion} {
				for _, attr := range []string{"", "status", "name"} {
					p := Topic{entityType: et, entityID: id, operation: op, attributeName: attr}
					if p.Matches(ev) != gens[p] {
						t.Fatalf("%s: matches=%v generalized=%v", p, p.Matches(ev), gens[p])
					}
				}
			}
		}
	}
}

func TestGeneralizationsCollapseUnsetDimensions(t *testing.T) {
	exact := MustTopic(WithEntityType("scenario"), WithEntityID("S1"), WithOperation(core.OperationDeletion))
	if n := len(Generalizations(exact)); n != 8 {
		t.Fatalf("expected 8 topics, got %d", n)
	}

	all := Generalizations(Topic{})
	if len(all) != 1 || all[0] != (Topic{}) {
		t.Fatalf("unexpected generalizations of wildcard: %v", all)
	}
}
