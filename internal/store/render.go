package store

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const nameWidth = 20

// Renderer turns records into display text. It never mutates them.
type Renderer struct {
	done    lipgloss.Style
	pending lipgloss.Style
	before  lipgloss.Style
	after   lipgloss.Style
}

// NewRenderer returns a colored renderer: green for done records and new
// values, red for pending records and old values.
func NewRenderer() *Renderer {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	return &Renderer{done: green, pending: red, before: red, after: green}
}

// NewPlainRenderer returns a renderer with no styling.
func NewPlainRenderer() *Renderer {
	plain := lipgloss.NewStyle()
	return &Renderer{done: plain, pending: plain, before: plain, after: plain}
}

// Record renders one record's current state as a fixed-width line.
func (rr *Renderer) Record(r *Record) string {
	line := fmt.Sprintf("%-*s %s %s", nameWidth, r.Name, r.DueDate, r.Priority)
	if r.Done {
		return rr.done.Render(line)
	}
	return rr.pending.Render(line)
}

// Changes renders the record's change history newest first. Each changed
// field shows the value the entry set and the value before it: the first
// truthy value of that field in a strictly earlier entry, falling back to
// the original snapshot.
func (rr *Renderer) Changes(r *Record) string {
	var b strings.Builder
	for i := len(r.Modifications) - 1; i >= 0; i-- {
		for key, after := range r.Modifications[i] {
			before := valueBefore(r, key, i-1)
			fmt.Fprintf(&b, "  %s: %s -> %s\n",
				key,
				rr.before.Render(fmt.Sprintf("%v", before)),
				rr.after.Render(fmt.Sprintf("%v", after)))
		}
	}
	return b.String()
}

func valueBefore(r *Record, key string, index int) any {
	for i := index; i >= 0; i-- {
		if v, ok := r.Modifications[i][key]; ok && truthy(v) {
			return v
		}
	}
	switch key {
	case FieldName:
		return r.Original.Name
	case FieldDueDate:
		return r.Original.DueDate
	case FieldPriority:
		return r.Original.Priority
	case "done":
		return r.Original.Done
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case bool:
		return t
	default:
		return v != nil
	}
}

// Render renders every record in collection order, optionally with each
// record's change history.
func (rs *Records) Render(rr *Renderer, withChanges bool) string {
	var b strings.Builder
	for _, r := range rs.records {
		b.WriteString(rr.Record(r))
		b.WriteByte('\n')
		if withChanges {
			b.WriteString(rr.Changes(r))
		}
	}
	return b.String()
}
