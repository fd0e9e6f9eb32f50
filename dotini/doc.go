// Package dotini loads layered INI configuration.
//
// A [Loader] parses a file into a [tree.Tree] and resolves every string
// value in declaration order. Each value is rewritten by three substitution
// passes, then coerced to a number if it looks like one:
//
//	${NAME}   environment variable NAME
//	$[NAME]   context variable NAME (see [DefaultContext] and [WithContext])
//	$(path)   a value resolved earlier in the same load; "/" separates keys
//
// A value that is exactly $<path> after substitution is replaced by the
// tree of path.ini, loaded relative to the including file and namespaced
// under the including key. Unresolved references become the empty string.
//
// Every resolved scalar is recorded in the loader's [Table] under its
// namespace path, the keys from the root joined by the separator:
//
//	[db]
//	host = localhost
//	url  = postgres://$(db/host)/app   ; postgres://localhost/app
//
// With [WithMaterialize], each scalar other than null is also defined in a
// [Registry] as a constant named by its path with the last key uppercased
// (db.HOST). [Set] does this against the process-wide [Constants]:
//
//	if _, err := dotini.Set(ctx, "/etc/app", ""); err != nil {
//		return err
//	}
//	host, _ := dotini.Constant("db.HOST")
package dotini
