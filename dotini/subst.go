package dotini

import (
	"strings"
)

// Reference kinds, in the order they are substituted.
const (
	refEnv     = "env"     // ${NAME}
	refContext = "context" // $[NAME]
	refSelf    = "self"    // $(path)
)

// substituter rewrites the references in a single string value.
// It holds no state of its own: every lookup goes through its fields.
type substituter struct {
	env  LookupFunc
	vars LookupFunc
	self func(path string) (any, bool)
	miss func(kind, name string)
	sep  string
}

// substitute expands ${NAME}, then $[NAME], then $(path) in raw and coerces
// the result. Unresolved references expand to the empty string.
func (s substituter) substitute(raw string) any {
	out := expand(raw, "${", "}", s.lookup(refEnv, s.env))
	out = expand(out, "$[", "]", s.lookup(refContext, s.vars))
	out = expand(out, "$(", ")", func(name string) string {
		v, ok := s.self(strings.ReplaceAll(name, "/", s.sep))
		if !ok {
			s.report(refSelf, name)
		}

		return Format(v)
	})

	return coerce(out)
}

func (s substituter) lookup(kind string, fn LookupFunc) func(string) string {
	return func(name string) string {
		if fn != nil {
			if v, ok := fn(name); ok {
				return v
			}
		}

		s.report(kind, name)

		return ""
	}
}

func (s substituter) report(kind, name string) {
	if s.miss != nil {
		s.miss(kind, name)
	}
}

// expand replaces every open+name+closing in s with repl(name). The name ends
// at the first closing after open. Empty names and unterminated references
// are copied verbatim. Replacement text is not rescanned.
func expand(s, open, closing string, repl func(name string) string) string {
	i := strings.Index(s, open)
	if i < 0 {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i >= 0 {
		b.WriteString(s[:i])
		s = s[i+len(open):]

		j := strings.Index(s, closing)
		if j < 0 {
			b.WriteString(open)

			break
		}

		if name := s[:j]; name == "" {
			b.WriteString(open + closing)
		} else {
			b.WriteString(repl(name))
		}

		s = s[j+len(closing):]
		i = strings.Index(s, open)
	}

	b.WriteString(s)

	return b.String()
}

// mapLookup adapts a map to [LookupFunc].
func mapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]

		return v, ok
	}
}
