package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type Kind string

const (
	Network    Kind = "network"
	Validation Kind = "validation"
	NotFound   Kind = "not_found"
	Session    Kind = "session"
	Server     Kind = "server"
	Internal   Kind = "internal"
)

// Error is what the client layer reports to its callers.
// Status is the HTTP status when the error came from the backend, 0 otherwise.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, e.Fields[k])
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func NetworkErr(err error) *Error {
	return &Error{Kind: Network, Detail: "backend unreachable", Err: err}
}

func ValidationErr(detail string, fields map[string]string) *Error {
	return &Error{Kind: Validation, Status: http.StatusBadRequest, Detail: detail, Fields: fields}
}

func NotFoundErr(detail string) *Error {
	return &Error{Kind: NotFound, Status: http.StatusNotFound, Detail: detail}
}

func SessionErr(detail string) *Error {
	return &Error{Kind: Session, Status: http.StatusUnauthorized, Detail: detail}
}

func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Internal, Err: err}
}

// FromStatus classifies a non-2xx backend response.
func FromStatus(status int, detail string, fields map[string]string) *Error {
	e := &Error{Status: status, Detail: detail, Fields: fields}
	switch {
	case status == http.StatusNotFound:
		e.Kind = NotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = Session
	case status >= 500:
		e.Kind = Server
	case status >= 400:
		e.Kind = Validation
	default:
		e.Kind = Internal
	}
	return e
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

// Message is a short user-facing description of err.
func Message(err error) string {
	ae, ok := As(err)
	if !ok {
		return "Something went wrong. Please try again."
	}

	switch ae.Kind {
	case Network:
		return "Cannot reach the store right now. Please try again."
	case NotFound:
		if ae.Detail != "" {
			return ae.Detail
		}
		return "Not found."
	case Session:
		if ae.Detail != "" {
			return ae.Detail
		}
		return "Please log in to continue."
	case Validation:
		if ae.Detail != "" {
			return ae.Detail
		}
		return "Please check the highlighted fields."
	default:
		return "Something went wrong. Please try again."
	}
}
