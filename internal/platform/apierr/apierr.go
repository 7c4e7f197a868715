package apierr

import (
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failure. Every domain operation reports failures as
// *Error values; the HTTP layer maps each kind to exactly one status and
// envelope shape.
type Kind int

const (
	// KindValidation is a field-scoped input failure (400).
	KindValidation Kind = iota
	// KindBusinessRule is a domain rule violation (400).
	KindBusinessRule
	// KindAuthRequired means the caller is not authenticated (401).
	KindAuthRequired
	// KindPermissionDenied means the caller may not act on the target (403).
	KindPermissionDenied
	// KindNotFound means the addressed entity does not exist (404).
	KindNotFound
	// KindMethodNotAllowed means the route exists but not for this verb (405).
	KindMethodNotAllowed
)

type Error struct {
	Kind    Kind
	Message string
	// Fields holds field name -> messages for validation failures and is
	// nil for every other kind.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msgs := range e.Fields {
			parts = append(parts, field+": "+strings.Join(msgs, "; "))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return "api error"
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func Validation(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// FieldError builds a single-field validation failure.
func FieldError(field string, msgs ...string) *Error {
	return Validation(map[string][]string{field: msgs})
}

func BusinessRule(msg string) *Error {
	return &Error{Kind: KindBusinessRule, Message: msg}
}

func AuthRequired(msg string) *Error {
	return &Error{Kind: KindAuthRequired, Message: msg}
}

func PermissionDenied(msg string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func MethodNotAllowed(msg string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: msg}
}
