package absence

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint", day(1), day(2), day(4), day(5), false},
		{"touching endpoints", day(1), day(2), day(2), day(3), true},
		{"identical", day(1), day(5), day(1), day(5), true},
		{"contained", day(1), day(10), day(3), day(5), true},
		{"containing", day(3), day(5), day(1), day(10), true},
		{"partial overlap", day(1), day(5), day(4), day(8), true},
		{"single day ranges", day(3), day(3), day(3), day(3), true},
		{"adjacent single days", day(3), day(3), day(4), day(4), false},
	}
	for _, c := range cases {
		got := Overlaps(c.s1, c.e1, c.s2, c.e2)
		if got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
		// Intersection is symmetric
		if rev := Overlaps(c.s2, c.e2, c.s1, c.e1); rev != got {
			t.Errorf("%s: Overlaps not symmetric: %v vs %v", c.name, got, rev)
		}
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypeVacation, TypeSickLeave, TypeHomeOffice, TypeBusinessTrip, TypeOther} {
		if !typ.Valid() {
			t.Errorf("Type(%q).Valid() = false, want true", typ)
		}
	}
	for _, typ := range []Type{"", "holiday", "VACATION"} {
		if typ.Valid() {
			t.Errorf("Type(%q).Valid() = true, want false", typ)
		}
	}
}
