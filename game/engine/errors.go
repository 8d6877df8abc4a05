package engine

import (
	"errors"
	"fmt"
)

// Error kinds reported by the engine. Every error returned by this package
// unwraps to exactly one of them.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownPile  = errors.New("unknown pile")
	ErrEmptySource  = errors.New("empty source pile")
	ErrIllegalMove  = errors.New("illegal move")
	ErrFormat       = errors.New("format error")
	ErrNotEmpty     = errors.New("pile not empty")
)

// GameError carries an error kind plus a human-readable detail.
type GameError struct {
	Kind error
	Msg  string
}

func (e *GameError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GameError) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &GameError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCode returns a stable snake_case code for err's kind, or "" when err
// is nil or not an engine error.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnknownPile):
		return "unknown_pile"
	case errors.Is(err, ErrEmptySource):
		return "empty_source"
	case errors.Is(err, ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, ErrFormat):
		return "format_error"
	case errors.Is(err, ErrNotEmpty):
		return "not_empty"
	default:
		return ""
	}
}

// detail returns the message of an engine error without its kind prefix.
func detail(err error) string {
	var ge *GameError
	if errors.As(err, &ge) && ge.Msg != "" {
		return ge.Msg
	}
	return err.Error()
}
