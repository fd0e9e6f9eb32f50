// Package parse converts INI text into a [tree.Tree] of typed scalars,
// arrays and sub-trees.
//
// Tokenizing is delegated to [gopkg.in/ini.v1]; this package only maps its
// sections and keys onto the tree shape:
//
//	name = app          ; root key
//	[db]                ; sub-tree "db"
//	port = 5432         ; int64
//	hosts[] = a         ; array "hosts"
//	hosts[] = b
//	opts[ssl] = on      ; sub-tree "opts" with ssl = true
//	[db.pool]           ; sub-tree "pool" under "db"
//	size = "4"          ; quoted, stays a string
//
// Bare values are typed: true, on and yes become true; false, off, no and
// none become false; null becomes nil; integer literals become int64.
// Everything else, and every quoted value, is a string.
package parse
