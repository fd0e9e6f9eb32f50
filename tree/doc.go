// Package tree implements the configuration tree: an insertion-ordered,
// nested mapping from string keys to scalars, arrays and sub-trees.
//
// Leaf values are one of string, int64, float64, bool or nil. Arrays are
// []any whose elements are leaves or *[Tree]. Keys keep their declaration
// order, and setting an existing key replaces its value in place.
//
// A [Tree] encodes to JSON, YAML and CBOR in key order.
package tree
