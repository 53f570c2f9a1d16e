package redact_test

import (
	"reflect"
	"testing"

	"github.com/vsariola/redact"
)

func TestRelations(t *testing.T) {
	ref := redact.NewTiming(4, 8)
	cases := []struct {
		target   redact.Timing
		relation redact.Relation
		expected bool
	}{
		{redact.NewTiming(0, 4), redact.Before, true},
		{redact.NewTiming(0, 5), redact.Before, false},
		{redact.NewTiming(8, 12), redact.After, true},
		{redact.NewTiming(7, 12), redact.After, false},
		{redact.NewTiming(4, 8), redact.Within, true},
		{redact.NewTiming(5, 6), redact.Within, true},
		{redact.NewTiming(3, 6), redact.Within, false},
		{redact.NewTiming(0, 16), redact.During, true},
		{redact.NewTiming(4, 8), redact.During, true},
		{redact.NewTiming(5, 16), redact.During, false},
		{redact.NewTiming(7, 9), redact.Overlapping, true},
		{redact.NewTiming(8, 9), redact.Overlapping, false},
		{redact.NewTiming(0, 4), redact.Overlapping, false},
		{redact.NewTiming(4, 8), redact.Equal, true},
		{redact.NewTiming(4, 9), redact.Equal, false},
		{redact.NewTiming(6, 12), redact.BeginningWithin, true},
		{redact.NewTiming(8, 12), redact.BeginningWithin, false},
		{redact.NewTiming(0, 8), redact.EndingWithin, true},
		{redact.NewTiming(0, 4), redact.EndingWithin, false},
	}
	for _, c := range cases {
		if got := c.relation.Holds(c.target, ref); got != c.expected {
			t.Errorf("%v %v %v: got %v, expected %v", c.target, c.relation, ref, got, c.expected)
		}
	}
}

func TestZeroLengthTiming(t *testing.T) {
	point := redact.NewTiming(8, 8)
	if !point.IsEmpty() {
		t.Fatalf("timing %v should be empty", point)
	}
	if !point.Within(redact.NewTiming(4, 8)) {
		t.Fatalf("a point at the end of a range should be within it")
	}
	if !point.Within(redact.NewTiming(8, 12)) {
		t.Fatalf("a point at the start of a range should be within it")
	}
	if point.Overlaps(redact.NewTiming(4, 8)) {
		t.Fatalf("a point at the exclusive end of a range should not overlap it")
	}
	if !point.Overlaps(redact.NewTiming(8, 12)) {
		t.Fatalf("a point at the start of a range should overlap it")
	}
	if !point.Overlaps(redact.NewTiming(8, 8)) {
		t.Fatalf("two points at the same position should overlap")
	}
	if point.Overlaps(redact.NewTiming(9, 9)) {
		t.Fatalf("two points at different positions should not overlap")
	}
	if got := redact.NewTiming(5, 3); got != redact.NewTiming(5, 5) {
		t.Fatalf("inverted timing was not clamped: got %v", got)
	}
}

func TestWithinNeverExceedsReference(t *testing.T) {
	ref := redact.NewTiming(10, 20)
	for start := 0; start < 30; start++ {
		for end := start; end < 30; end++ {
			target := redact.NewTiming(start, end)
			if redact.Within.Holds(target, ref) && (target.Start < ref.Start || target.End > ref.End) {
				t.Fatalf("%v reported within %v", target, ref)
			}
		}
	}
}

func TestDivideAndJoin(t *testing.T) {
	pieces := redact.NewTiming(0, 10).Divide(4)
	expected := []redact.Timing{{Start: 0, End: 4}, {Start: 4, End: 8}, {Start: 8, End: 10}}
	if !reflect.DeepEqual(pieces, expected) {
		t.Fatalf("Divide: got %v, expected %v", pieces, expected)
	}
	if got := redact.Join(pieces); !reflect.DeepEqual(got, []redact.Timing{{Start: 0, End: 10}}) {
		t.Fatalf("Join: got %v, expected [[0, 10)]", got)
	}
	joined := redact.Join([]redact.Timing{{Start: 12, End: 14}, {Start: 0, End: 2}, {Start: 1, End: 5}})
	expected = []redact.Timing{{Start: 0, End: 5}, {Start: 12, End: 14}}
	if !reflect.DeepEqual(joined, expected) {
		t.Fatalf("Join: got %v, expected %v", joined, expected)
	}
}

func TestRelationText(t *testing.T) {
	for r := redact.During; r <= redact.Equal; r++ {
		text, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", r, err)
		}
		var back redact.Relation
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) failed: %v", text, err)
		}
		if back != r {
			t.Fatalf("got %v, expected %v", back, r)
		}
	}
	if _, err := redact.ParseRelation("sideways"); err == nil {
		t.Fatalf("ParseRelation should fail for unknown relations")
	}
}
