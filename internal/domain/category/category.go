// Package category holds the closed set of topic categories shared by judge
// preferences and student submissions, plus the pure parsers that map form
// text onto category ids and participation flags.
package category

import (
	"fmt"
	"strings"
)

// ID identifies a category by its position in the table.
type ID int

// Entry describes one category in each vocabulary.
type Entry struct {
	// Label is the human-readable name used in reports.
	Label string
	// JudgeLabel is the option text on the judge form. A judge prefers the
	// category when the label occurs anywhere in their multi-select answer.
	JudgeLabel string
	// StudentLabel is the exact option text on the student form.
	StudentLabel string
}

// Table is an immutable category mapping. Build it once with NewTable.
type Table struct {
	entries   []Entry
	byStudent map[string]ID
}

// NewTable validates entries and builds a Table. Ids follow entry order.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidTable)
	}
	t := &Table{
		entries:   make([]Entry, len(entries)),
		byStudent: make(map[string]ID, len(entries)),
	}
	copy(t.entries, entries)
	judgeSeen := make(map[string]struct{}, len(entries))
	for i, e := range t.entries {
		if e.Label == "" || e.JudgeLabel == "" || e.StudentLabel == "" {
			return nil, fmt.Errorf("%w: category %d has an empty label", ErrInvalidTable, i)
		}
		if _, dup := t.byStudent[e.StudentLabel]; dup {
			return nil, fmt.Errorf("%w: duplicate student label %q", ErrInvalidTable, e.StudentLabel)
		}
		if _, dup := judgeSeen[e.JudgeLabel]; dup {
			return nil, fmt.Errorf("%w: duplicate judge label %q", ErrInvalidTable, e.JudgeLabel)
		}
		judgeSeen[e.JudgeLabel] = struct{}{}
		t.byStudent[e.StudentLabel] = ID(i)
	}
	return t, nil
}

// Len returns the number of categories.
func (t *Table) Len() int { return len(t.entries) }

// IDs returns every category id in ascending order.
func (t *Table) IDs() []ID {
	ids := make([]ID, len(t.entries))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// Entry returns the entry for id.
func (t *Table) Entry(id ID) (Entry, bool) {
	if id < 0 || int(id) >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[id], true
}

// Label returns the report label for id, or a placeholder for unknown ids.
func (t *Table) Label(id ID) string {
	e, ok := t.Entry(id)
	if !ok {
		return fmt.Sprintf("category %d", id)
	}
	return e.Label
}

// JudgePreferences returns, in id order, every category whose judge label
// occurs in text.
func (t *Table) JudgePreferences(text string) []ID {
	var ids []ID
	for i, e := range t.entries {
		if strings.Contains(text, e.JudgeLabel) {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// JudgePrefers reports whether text selects category id.
func (t *Table) JudgePrefers(text string, id ID) bool {
	e, ok := t.Entry(id)
	return ok && strings.Contains(text, e.JudgeLabel)
}

// StudentCategory returns the category whose student label equals text.
func (t *Table) StudentCategory(text string) (ID, error) {
	id, ok := t.byStudent[text]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, text)
	}
	return id, nil
}
