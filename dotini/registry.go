package dotini

import (
	"iter"
	"log/slog"
	"os"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry receives the constants materialized by a [Loader].
type Registry interface {
	// Define binds name to value. Implementations may refuse with an error
	// wrapping [ErrAlreadyDefined].
	Define(name string, value any) error
}

// RegistryFunc adapts a function to [Registry].
type RegistryFunc func(name string, value any) error

// Define calls f(name, value).
func (f RegistryFunc) Define(name string, value any) error {
	return f(name, value)
}

// Constants is the process-wide registry targeted by [Set].
//
//nolint:gochecknoglobals
var Constants = NewMapRegistry()

// Constant returns the value of a constant in [Constants].
func Constant(name string) (any, bool) {
	return Constants.Lookup(name)
}

// MapRegistry is an insertion-ordered, concurrency-safe [Registry] whose
// constants cannot be redefined.
type MapRegistry struct {
	mu sync.RWMutex
	m  *orderedmap.OrderedMap[string, any]
}

// NewMapRegistry returns an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{m: orderedmap.New[string, any]()}
}

// Define binds name to value unless name is already defined.
func (r *MapRegistry) Define(name string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m.Get(name); ok {
		return ErrAlreadyDefined.With(slog.String("name", name))
	}

	r.m.Set(name, value)

	return nil
}

// Lookup returns the value bound to name.
func (r *MapRegistry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.m.Get(name)
}

// Len returns the number of defined constants.
func (r *MapRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.m.Len()
}

// All returns an iterator over a snapshot of the constants in definition
// order.
func (r *MapRegistry) All() iter.Seq2[string, any] {
	r.mu.RLock()

	keys := make([]string, 0, r.m.Len())
	vals := make([]any, 0, r.m.Len())

	for p := r.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
		vals = append(vals, p.Value)
	}

	r.mu.RUnlock()

	return func(yield func(string, any) bool) {
		for i, k := range keys {
			if !yield(k, vals[i]) {
				return
			}
		}
	}
}

// Reset removes every constant.
func (r *MapRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.m = orderedmap.New[string, any]()
}

// DefaultEnvReplacer maps namespace separators onto underscores so constant
// names are valid environment variable names.
//
//nolint:gochecknoglobals
var DefaultEnvReplacer = strings.NewReplacer(
	".", "_",
	"/", "_",
	`\`, "_",
	"-", "_",
)

// EnvRegistry defines constants as process environment variables named by
// the replaced, uppercased constant name (db.HOST becomes DB_HOST).
// Existing variables are overwritten.
type EnvRegistry struct {
	// Replacer rewrites constant names. Nil uses [DefaultEnvReplacer].
	Replacer *strings.Replacer
	// Setenv sets a variable. Nil uses [os.Setenv].
	Setenv func(key, value string) error
}

// Define sets the environment variable derived from name to the text form
// of value.
func (r EnvRegistry) Define(name string, value any) error {
	replacer := r.Replacer
	if replacer == nil {
		replacer = DefaultEnvReplacer
	}

	setenv := r.Setenv
	if setenv == nil {
		setenv = os.Setenv
	}

	return setenv(strings.ToUpper(replacer.Replace(name)), Format(value))
}
