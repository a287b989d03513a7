// Package store owns the record model: schema validation, the ordered
// collection, change tracking, rendering, and the JSON Lines backing file.
package store

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Rule validates a single raw field value.
type Rule interface {
	Check(value string) bool
}

// BoundedText accepts values of at most MaxLen runes.
type BoundedText struct {
	MaxLen int
}

func (r BoundedText) Check(value string) bool {
	return utf8.RuneCountInString(value) <= r.MaxLen
}

const dateLayout = "2006/01/02"

// Date accepts values in exactly YYYY/MM/DD form. Parse failure is the
// only rejection criterion.
type Date struct{}

func (Date) Check(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

// Priority accepts one of the enumerated levels, case-sensitive.
type Priority struct{}

var priorityLevels = []string{"minor", "major"}

func (Priority) Check(value string) bool {
	for _, level := range priorityLevels {
		if value == level {
			return true
		}
	}
	return false
}

// Field keys of the record schema.
const (
	FieldName     = "name"
	FieldDueDate  = "due_date"
	FieldPriority = "priority"
)

type schemaField struct {
	Key  string
	Rule Rule
}

// recordSchema binds the fields to their rules in parse order.
var recordSchema = []schemaField{
	{FieldName, BoundedText{MaxLen: 20}},
	{FieldDueDate, Date{}},
	{FieldPriority, Priority{}},
}

// modifiableKeys is the closed set of fields Modify may change. The done
// flag is deliberately absent: only MarkDone can log a done change.
var modifiableKeys = map[string]bool{
	FieldName:     true,
	FieldDueDate:  true,
	FieldPriority: true,
}

// CheckFieldSpec splits a key:value modification spec. Specs that do not
// split into exactly two parts, or whose key is not modifiable, yield no
// match.
func CheckFieldSpec(spec string) (key, value string, ok bool) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	if !modifiableKeys[parts[0]] {
		return "", "", false
	}
	return parts[0], parts[1], true
}
