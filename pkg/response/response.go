package response

import (
	"errors"
	"net/http"
	"strings"
)

// Error is an error that is safe to show to API clients. Code is the HTTP
// status it maps to and Kind a stable identifier such as "NOT_FOUND".
type Error struct {
	Code int
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Kind: KindFromStatus(code), Err: errors.New(err)}
}

func NewErrorWithKind(code int, kind string, err string) error {
	return &Error{Code: code, Kind: kind, Err: errors.New(err)}
}

// KindFromStatus turns a status code into its upper snake case text,
// e.g. 404 becomes "NOT_FOUND".
func KindFromStatus(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.ReplaceAll(text, "-", " ")
	return strings.ToUpper(strings.Join(strings.Fields(text), "_"))
}
