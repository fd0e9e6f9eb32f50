package dotini

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Table records every resolved scalar of a load by its namespace path, in
// the order values were resolved.
//
// A Table is owned by one [Loader] and shared by every file it includes.
type Table struct {
	m *orderedmap.OrderedMap[string, any]
}

func newTable() *Table {
	return &Table{m: orderedmap.New[string, any]()}
}

// Get returns the value resolved for path.
func (t *Table) Get(path string) (any, bool) {
	return t.m.Get(path)
}

// Len returns the number of resolved paths.
func (t *Table) Len() int {
	return t.m.Len()
}

// All returns an iterator over paths and values in resolution order.
func (t *Table) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for p := t.m.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Map returns a copy of the table as a native map.
func (t *Table) Map() map[string]any {
	out := make(map[string]any, t.Len())

	for k, v := range t.All() {
		out[k] = v
	}

	return out
}

// MarshalJSON encodes the table as a flat JSON object in resolution order.
func (t *Table) MarshalJSON() ([]byte, error) {
	return t.m.MarshalJSON()
}

func (t *Table) set(path string, v any) {
	t.m.Set(path, v)
}
