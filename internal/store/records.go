package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Records is the ordered record collection. Insertion order is file
// order, and the collection exclusively owns its records.
type Records struct {
	records []*Record
}

func NewRecords() *Records {
	return &Records{}
}

// Find returns the first record with the given name, or nil. Duplicate
// names are permitted on insert, so later duplicates are shadowed here.
func (rs *Records) Find(name string) *Record {
	for _, r := range rs.records {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Add appends to the end of the collection.
func (rs *Records) Add(r *Record) {
	rs.records = append(rs.records, r)
}

func (rs *Records) Len() int {
	return len(rs.records)
}

// All returns the records in collection order.
func (rs *Records) All() []*Record {
	return rs.records
}

// AddAll parses and adds each item. The first failure aborts the batch
// and propagates; records added before it stay in memory, but a failed
// run never reaches Save.
func (rs *Records) AddAll(items []string) error {
	for _, item := range items {
		r, err := Parse(item)
		if err != nil {
			return err
		}
		rs.Add(r)
	}
	return nil
}

// RemoveAll deletes the first record matching each single-segment spec.
// Multi-segment specs and unknown names are skipped silently.
func (rs *Records) RemoveAll(items []string) {
	for _, item := range items {
		parts, ok := splitSpec(item, 1)
		if !ok {
			continue
		}
		rs.remove(parts[0])
	}
}

func (rs *Records) remove(name string) {
	for i, r := range rs.records {
		if r.Name == name {
			rs.records = append(rs.records[:i], rs.records[i+1:]...)
			return
		}
	}
}

// MarkDoneAll marks the first record matching each single-segment spec.
// Same skip discipline as RemoveAll.
func (rs *Records) MarkDoneAll(items []string) {
	for _, item := range items {
		parts, ok := splitSpec(item, 1)
		if !ok {
			continue
		}
		if r := rs.Find(parts[0]); r != nil {
			r.MarkDone()
		}
	}
}

// ModifyAll splits each spec into name;key:value;... (no segment cap) and
// applies the field specs to the first matching record. Unknown names are
// no-ops.
func (rs *Records) ModifyAll(items []string) {
	for _, item := range items {
		parts, _ := splitSpec(item, 0)
		if r := rs.Find(parts[0]); r != nil {
			r.Modify(parts[1:])
		}
	}
}

// splitSpec splits on ';'. A maxLen of 0 means unbounded.
func splitSpec(item string, maxLen int) ([]string, bool) {
	parts := strings.Split(item, ";")
	if maxLen > 0 && len(parts) > maxLen {
		return nil, false
	}
	return parts, true
}

// LoadRecords reads the backing file line by line, trusting the stored
// format. A missing file yields an empty collection.
func LoadRecords(path string) (*Records, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewRecords(), nil
		}
		return nil, err
	}
	rs := NewRecords()
	for _, line := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := Load(line)
		if err != nil {
			return nil, err
		}
		rs.Add(r)
	}
	return rs, nil
}

// Save overwrites the backing file with one JSON line per record in
// collection order. An empty collection produces an empty file.
func (rs *Records) Save(path string) error {
	var buf bytes.Buffer
	for _, r := range rs.records {
		line, err := r.Write()
		if err != nil {
			return err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return atomicWriteFile(path, buf.Bytes(), 0o644)
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
