package dotini

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel itself", ErrNotFound, ErrNotFound, true},
		{"with attrs", ErrNotFound.With(slog.String("file", "x")), ErrNotFound, true},
		{"wrapped cause", ErrRead.Wrap(cause), ErrRead, true},
		{"cause reachable", ErrRead.Wrap(cause), cause, true},
		{"different sentinel", ErrRead.Wrap(cause), ErrNotFound, false},
		{"behind fmt wrap", fmt.Errorf("outer: %w", ErrParse.Wrap(cause)), ErrParse, true},
		{"derived is not a target", ErrNotFound, ErrNotFound.Wrap(cause), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("m"), "m"},
		{"message and cause", NewError("m").Wrap(errors.New("c")), "m: c"},
		{"cause only", WrapError(errors.New("c")), "c"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError_KeepsError(t *testing.T) {
	e := ErrCyclicInclude.With(slog.String("chain", "a -> a"))

	if got := WrapError(fmt.Errorf("ctx: %w", e)); got != e {
		t.Errorf("expected WrapError to return the wrapped *Error")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrMaxDepthExceeded.
		Wrap(errors.New("too deep")).
		With(slog.String("file", "l9.ini"), slog.Int("depth", 9))

	var b strings.Builder

	slog.New(slog.NewTextHandler(&b, nil)).Error("load", slog.Any("error", err))

	out := b.String()
	for _, want := range []string{
		`error.error="maximum include depth exceeded"`,
		`error.cause="too deep"`,
		`error.file=l9.ini`,
		`error.depth=9`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestError_With_DoesNotShareAttrs(t *testing.T) {
	base := ErrNotFound.With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))
	_ = base.With(slog.String("c", "3"))

	if n := len(base.attrs); n != 1 {
		t.Errorf("expected base to keep 1 attr, got %d", n)
	}
}
