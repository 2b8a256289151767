package apperr

import (
	"errors"
	"strings"
)

// Kind classifies an error so the transport layer can choose a response
// without inspecting concrete error types.
type Kind int

const (
	Internal Kind = iota
	AuthenticationRequired
	AccessDenied
	InvalidArgument
	NotEditable
	NotFound
)

func (k Kind) String() string {
	switch k {
	case AuthenticationRequired:
		return "authentication required"
	case AccessDenied:
		return "access denied"
	case InvalidArgument:
		return "invalid argument"
	case NotEditable:
		return "not editable"
	case NotFound:
		return "not found"
	}

	return "internal error"
}

// Error is a tagged error.
//
// Msg is safe to show to API clients. Op names the operation that failed and
// Err carries the underlying cause; neither is meant for clients.
type Error struct {
	Kind Kind
	Msg  string
	Op   string
	Err  error
}

// New returns an error of the given kind with a client-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap tags err with kind and the failing operation.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}

	switch {
	case e.Msg != "" && e.Err != nil:
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by kind and message, so wrapped sentinels
// compare equal with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind && e.Msg == t.Msg && t.Err == nil && t.Op == ""
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Errors that carry no kind are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Internal
}

// Message returns the first client-facing message in err's chain,
// or fallback when there is none.
func Message(err error, fallback string) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		if e.Msg != "" {
			return e.Msg
		}

		err = e.Err
	}

	return fallback
}

// Is reports whether err has the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
