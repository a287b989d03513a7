package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindReturnsFirstMatch(t *testing.T) {
	rs := NewRecords()
	first := NewRecord("dup", "2024/01/01", "minor")
	second := NewRecord("dup", "2024/02/02", "major")
	rs.Add(first)
	rs.Add(second)
	if got := rs.Find("dup"); got != first {
		t.Fatalf("expected first match, got %#v", got)
	}
	if got := rs.Find("missing"); got != nil {
		t.Fatalf("expected nil for missing name, got %#v", got)
	}
}

func TestAddAllAbortsOnFirstFailure(t *testing.T) {
	rs := NewRecords()
	err := rs.AddAll([]string{
		"ok;2024/01/01;minor",
		"bad;2024/13/40;major",
		"never;2024/01/01;minor",
	})
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	// The item before the failure stays in memory; the one after is never
	// parsed.
	if rs.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", rs.Len())
	}
	if rs.Find("ok") == nil || rs.Find("never") != nil {
		t.Fatalf("unexpected collection contents")
	}
}

func TestRemoveAllSkipsMultiSegmentSpecs(t *testing.T) {
	rs := NewRecords()
	rs.Add(NewRecord("a", "2024/01/01", "minor"))
	rs.RemoveAll([]string{"a;b"})
	if rs.Len() != 1 {
		t.Fatalf("expected multi-segment spec to be a no-op, got %d records", rs.Len())
	}
}

func TestRemoveAllRemovesFirstMatchOnly(t *testing.T) {
	rs := NewRecords()
	first := NewRecord("dup", "2024/01/01", "minor")
	second := NewRecord("dup", "2024/02/02", "major")
	rs.Add(first)
	rs.Add(second)
	rs.RemoveAll([]string{"dup", "missing"})
	if rs.Len() != 1 {
		t.Fatalf("expected 1 record left, got %d", rs.Len())
	}
	if got := rs.Find("dup"); got != second {
		t.Fatalf("expected the second duplicate to survive, got %#v", got)
	}
}

func TestMarkDoneAll(t *testing.T) {
	rs := NewRecords()
	r := NewRecord("a", "2024/01/01", "minor")
	rs.Add(r)
	rs.MarkDoneAll([]string{"a", "missing", "a;b"})
	if !r.Done {
		t.Fatalf("expected record marked done")
	}
	if len(r.Modifications) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(r.Modifications))
	}
}

func TestModifyAll(t *testing.T) {
	rs := NewRecords()
	r := NewRecord("a", "2024/01/01", "minor")
	rs.Add(r)
	rs.ModifyAll([]string{"a;priority:major;due_date:2024/02/02", "missing;priority:minor"})
	if r.Priority != "major" || r.DueDate != "2024/02/02" {
		t.Fatalf("unexpected fields after modify: %#v", r)
	}
	if len(r.Modifications) != 1 {
		t.Fatalf("expected one entry for the whole spec, got %d", len(r.Modifications))
	}
	if len(r.Modifications[0]) != 2 {
		t.Fatalf("expected both changes in one entry, got %#v", r.Modifications[0])
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	rs, err := LoadRecords(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.Len() != 0 {
		t.Fatalf("expected empty collection, got %d records", rs.Len())
	}
}

func TestSaveEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.txt")
	if err := NewRecords().Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("expected empty file, got %q", string(b))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.txt")
	rs := NewRecords()
	if err := rs.AddAll([]string{"first;2024/01/01;minor", "second;2024/02/02;major"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs.MarkDoneAll([]string{"second"})
	if err := rs.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", loaded.Len())
	}
	all := loaded.All()
	if all[0].Name != "first" || all[1].Name != "second" {
		t.Fatalf("expected file order preserved, got %q, %q", all[0].Name, all[1].Name)
	}
	if all[0].Done || !all[1].Done {
		t.Fatalf("done flags not preserved: %#v", all)
	}
	if len(all[1].Modifications) != 1 {
		t.Fatalf("expected 1 modification entry, got %d", len(all[1].Modifications))
	}
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.txt")
	rs := NewRecords()
	if err := rs.AddAll([]string{"first;2024/01/01;minor", "second;2024/02/02;major"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rs.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs.RemoveAll([]string{"first"})
	if err := rs.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 1 || loaded.Find("first") != nil {
		t.Fatalf("expected removed record gone from file, got %d records", loaded.Len())
	}
}
