package tree

import (
	"iter"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tree is an insertion-ordered mapping from key to value.
//
// The zero value is not usable; create trees with [New].
type Tree struct {
	m *orderedmap.OrderedMap[string, any]
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{m: orderedmap.New[string, any]()}
}

// Len returns the number of keys in t.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return t.m.Len()
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}

	return t.m.Get(key)
}

// Set stores v under key. An existing key keeps its position.
func (t *Tree) Set(key string, v any) {
	t.m.Set(key, v)
}

// Delete removes key and reports whether it was present.
func (t *Tree) Delete(key string) bool {
	_, ok := t.m.Delete(key)

	return ok
}

// Child returns the sub-tree stored under key, creating it when key is
// absent or holds a non-tree value.
func (t *Tree) Child(key string) *Tree {
	if v, ok := t.m.Get(key); ok {
		if sub, ok := v.(*Tree); ok {
			return sub
		}
	}

	sub := New()
	t.m.Set(key, sub)

	return sub
}

// All returns an iterator over the key-value pairs of t in order.
//
// Values may be replaced with [Tree.Set] during iteration.
func (t *Tree) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if t == nil {
			return
		}

		for p := t.m.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys of t in order.
func (t *Tree) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Lookup descends into t following path split by sep. Array elements are
// addressed by their decimal index.
func (t *Tree) Lookup(path, sep string) (any, bool) {
	if path == "" {
		return t, t != nil
	}

	var cur any = t

	for _, key := range strings.Split(path, sep) {
		switch node := cur.(type) {
		case *Tree:
			v, ok := node.Get(key)
			if !ok {
				return nil, false
			}

			cur = v

		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}

			cur = node[i]

		default:
			return nil, false
		}
	}

	return cur, true
}

// WalkFunc is called by [Tree.Walk] for each leaf with its full path.
// Returning false stops the walk.
type WalkFunc func(path string, value any) bool

// Walk calls fn for every leaf of t, depth-first in key order. Paths join
// ancestor keys and array indices with sep.
func (t *Tree) Walk(sep string, fn WalkFunc) {
	walk(t, "", sep, fn)
}

func walk(v any, path, sep string, fn WalkFunc) bool {
	join := func(key string) string {
		if path == "" {
			return key
		}

		return path + sep + key
	}

	switch node := v.(type) {
	case *Tree:
		for k, child := range node.All() {
			if !walk(child, join(k), sep, fn) {
				return false
			}
		}

		return true

	case []any:
		for i, child := range node {
			if !walk(child, join(strconv.Itoa(i)), sep, fn) {
				return false
			}
		}

		return true

	default:
		return fn(path, v)
	}
}

// Map converts t into native Go maps and slices, recursively.
func (t *Tree) Map() map[string]any {
	if t == nil {
		return nil
	}

	out := make(map[string]any, t.Len())

	for k, v := range t.All() {
		out[k] = native(v)
	}

	return out
}

func native(v any) any {
	switch node := v.(type) {
	case *Tree:
		return node.Map()

	case []any:
		out := make([]any, len(node))
		for i, e := range node {
			out[i] = native(e)
		}

		return out

	default:
		return v
	}
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}

	c := New()

	for k, v := range t.All() {
		c.Set(k, clone(v))
	}

	return c
}

func clone(v any) any {
	switch node := v.(type) {
	case *Tree:
		return node.Clone()

	case []any:
		out := make([]any, len(node))
		for i, e := range node {
			out[i] = clone(e)
		}

		return out

	default:
		return v
	}
}
