package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrSchema = errors.New("schema")

// SchemaError reports an add item that failed record validation.
// It still satisfies errors.Is(err, ErrSchema).
type SchemaError struct {
	Reason string
	Value  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s: %q", e.Reason, e.Value)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Snapshot holds a record's field values frozen at construction time. It
// is the base case when reconstructing change history.
type Snapshot struct {
	Name     string `json:"name"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
}

// Change is one batch of accepted field changes recorded as a single log
// entry. Values are strings for the data fields and true for done.
type Change map[string]any

// Record is one todo task plus its change history.
type Record struct {
	Name          string   `json:"name"`
	DueDate       string   `json:"due_date"`
	Priority      string   `json:"priority"`
	Done          bool     `json:"done"`
	Original      Snapshot `json:"original"`
	Modifications []Change `json:"modifications"`
}

// NewRecord builds a fresh record: not done, a modification log of its
// own, and the original snapshot taken from the given fields.
func NewRecord(name, dueDate, priority string) *Record {
	return &Record{
		Name:          name,
		DueDate:       dueDate,
		Priority:      priority,
		Original:      Snapshot{Name: name, DueDate: dueDate, Priority: priority},
		Modifications: []Change{},
	}
}

// Parse builds a record from a name;due_date;priority line, checking each
// segment against its schema rule in order.
func Parse(line string) (*Record, error) {
	parts := strings.Split(line, ";")
	if len(parts) != len(recordSchema) {
		return nil, &SchemaError{Reason: "item does not fit schema", Value: line}
	}
	parsed := make(map[string]string, len(recordSchema))
	for i, field := range recordSchema {
		if !field.Rule.Check(parts[i]) {
			return nil, &SchemaError{Reason: "rule check failed on field", Value: parts[i]}
		}
		parsed[field.Key] = parts[i]
	}
	return NewRecord(parsed[FieldName], parsed[FieldDueDate], parsed[FieldPriority]), nil
}

// Load decodes a stored JSON line. Storage is trusted: no validation, and
// the original snapshot is taken verbatim rather than recomputed.
func Load(line string) (*Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(line), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Write serializes the full current state to a single JSON line.
func (r *Record) Write() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarkDone sets the done flag and logs the change. Done is monotonic:
// nothing in the model resets it, and Modify never touches it.
func (r *Record) MarkDone() {
	r.Done = true
	r.Modifications = append(r.Modifications, Change{"done": true})
}

// Modify applies every accepted key:value spec and logs all of them as
// one entry. Rejected specs are skipped without error. The entry is
// appended even when nothing was accepted.
func (r *Record) Modify(fieldSpecs []string) {
	entry := Change{}
	for _, spec := range fieldSpecs {
		key, value, ok := CheckFieldSpec(spec)
		if !ok {
			continue
		}
		r.setField(key, value)
		entry[key] = value
	}
	r.Modifications = append(r.Modifications, entry)
}

func (r *Record) setField(key, value string) {
	switch key {
	case FieldName:
		r.Name = value
	case FieldDueDate:
		r.DueDate = value
	case FieldPriority:
		r.Priority = value
	}
}
