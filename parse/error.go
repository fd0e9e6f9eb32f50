package parse

import "log/slog"

// Error reports INI text that could not be parsed.
type Error struct {
	File    string
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.File == "" {
		return e.Message
	}

	return e.File + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", e.File),
		slog.String("message", e.Message),
	)
}
