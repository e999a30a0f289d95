package schema

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/types"
)

func namedFields(names ...string) []types.Field {
	fields := make([]types.Field, len(names))
	for i, n := range names {
		fields[i] = types.Field{ID: uuid.New(), Name: n, Type: types.FieldString}
	}
	return fields
}

func names(fields []types.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func TestReorder_MoveForward(t *testing.T) {
	got, moved := Reorder(namedFields("a", "b", "c"), 0, 2)
	if !moved {
		t.Fatal("expected a move")
	}
	want := []string{"b", "c", "a"}
	for i, n := range names(got) {
		if n != want[i] {
			t.Fatalf("result = %v, want %v", names(got), want)
		}
	}
}

func TestReorder_MoveBackward(t *testing.T) {
	got, moved := Reorder(namedFields("a", "b", "c", "d"), 3, 1)
	if !moved {
		t.Fatal("expected a move")
	}
	want := []string{"a", "d", "b", "c"}
	for i, n := range names(got) {
		if n != want[i] {
			t.Fatalf("result = %v, want %v", names(got), want)
		}
	}
}

func TestReorder_PreservesLengthAndMembership(t *testing.T) {
	in := namedFields("a", "b", "c", "d", "e")
	for src := 0; src < len(in); src++ {
		for dst := 0; dst < len(in); dst++ {
			got, _ := Reorder(in, src, dst)
			if len(got) != len(in) {
				t.Fatalf("Reorder(%d,%d): len = %d, want %d", src, dst, len(got), len(in))
			}
			seen := make(map[uuid.UUID]int)
			for _, f := range got {
				seen[f.ID]++
			}
			for _, f := range in {
				if seen[f.ID] != 1 {
					t.Fatalf("Reorder(%d,%d): field %s appears %d times", src, dst, f.Name, seen[f.ID])
				}
			}
			if got[dst].ID != in[src].ID {
				t.Fatalf("Reorder(%d,%d): moved field not at destination", src, dst)
			}
		}
	}
}

func TestReorder_OutOfRangeIsNoOp(t *testing.T) {
	in := namedFields("a", "b", "c")
	cases := [][2]int{{-1, 1}, {1, -1}, {3, 1}, {1, 3}, {5, 5}}
	for _, c := range cases {
		got, moved := Reorder(in, c[0], c[1])
		if moved {
			t.Errorf("Reorder(%d,%d) reported a move", c[0], c[1])
		}
		for i := range in {
			if got[i].ID != in[i].ID {
				t.Errorf("Reorder(%d,%d) mutated order", c[0], c[1])
			}
		}
	}
}

func TestReorder_SameIndexIsNoOp(t *testing.T) {
	in := namedFields("a", "b")
	got, moved := Reorder(in, 1, 1)
	if moved {
		t.Error("Reorder(1,1) reported a move")
	}
	if got[0].ID != in[0].ID || got[1].ID != in[1].ID {
		t.Error("Reorder(1,1) mutated order")
	}
}

func TestStore_Reorder(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, "a", types.FieldString, false)
	mustAdd(t, s, "b", types.FieldString, false)
	mustAdd(t, s, "c", types.FieldString, false)

	s.Reorder(context.Background(), 0, 2)

	got := names(s.Fields())
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestStore_Reorder_OutOfRange(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, "a", types.FieldString, false)
	mustAdd(t, s, "b", types.FieldString, false)

	s.Reorder(context.Background(), 0, 7)

	got := names(s.Fields())
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("order = %v, want unchanged", got)
	}
}
