package parse

import (
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/ardnew/dotini/tree"
)

// SectionDelimiter separates nested section names, as in [a.b].
const SectionDelimiter = "."

//nolint:gochecknoglobals
var options = ini.LoadOptions{
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
	PreserveSurroundedQuote:    true,
	SpaceBeforeInlineComment:   true,
	KeyValueDelimiters:         "=",
	ChildSectionDelimiter:      SectionDelimiter,
}

// Parse converts the INI text in data into a tree. The name is only used to
// label errors.
func Parse(name string, data []byte) (*tree.Tree, error) {
	f, err := ini.LoadSources(options, data)
	if err != nil {
		return nil, &Error{File: name, Message: err.Error(), err: err}
	}

	root := tree.New()

	for _, sec := range f.Sections() {
		node := root

		if sec.Name() != ini.DefaultSection {
			for _, part := range strings.Split(sec.Name(), SectionDelimiter) {
				node = node.Child(part)
			}
		}

		for _, key := range sec.Keys() {
			setKey(node, key)
		}
	}

	return root, nil
}

func setKey(node *tree.Tree, key *ini.Key) {
	name := key.Name()
	vals := key.ValueWithShadows()

	base, sub, ok := splitIndex(name)

	switch {
	case ok && sub == "":
		arr := make([]any, 0, len(vals))
		if prev, exists := node.Get(base); exists {
			if p, isArr := prev.([]any); isArr {
				arr = append(arr, p...)
			}
		}

		for _, v := range vals {
			arr = append(arr, Scalar(v))
		}

		node.Set(base, arr)

	case ok:
		node.Child(base).Set(sub, Scalar(last(vals)))

	default:
		node.Set(name, Scalar(last(vals)))
	}
}

// splitIndex splits "k[name]" into "k" and "name". The name is empty for
// "k[]".
func splitIndex(key string) (base, sub string, ok bool) {
	if !strings.HasSuffix(key, "]") {
		return key, "", false
	}

	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return key, "", false
	}

	return key[:open], key[open+1 : len(key)-1], true
}

func last(vals []string) string {
	if len(vals) == 0 {
		return ""
	}

	return vals[len(vals)-1]
}

// Scalar types a single raw INI value.
func Scalar(raw string) any {
	if s, ok := unquote(raw); ok {
		return s
	}

	switch strings.ToLower(raw) {
	case "true", "on", "yes":
		return true
	case "false", "off", "no", "none":
		return false
	case "null":
		return nil
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}

	return raw
}

func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}

	if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
		return s[1 : len(s)-1], true
	}

	return s, false
}
