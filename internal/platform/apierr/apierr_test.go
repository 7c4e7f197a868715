package apierr

import (
	"net/http"
	"testing"
)

func TestHTTPStatusPerKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindBusinessRule, http.StatusBadRequest},
		{KindAuthRequired, http.StatusUnauthorized},
		{KindPermissionDenied, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		e := &Error{Kind: tc.kind}
		if got := e.HTTPStatus(); got != tc.want {
			t.Fatalf("unexpected status for kind %d: got=%d want=%d", tc.kind, got, tc.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	if got := BusinessRule("Recipe is already in favorites.").Error(); got != "Recipe is already in favorites." {
		t.Fatalf("unexpected message: %q", got)
	}

	fieldErr := Validation(map[string][]string{
		"name":  {"This field is required."},
		"email": {"Enter a valid email address.", "too long"},
	})
	want := "email: Enter a valid email address.; too long; name: This field is required."
	if got := fieldErr.Error(); got != want {
		t.Fatalf("unexpected message:\ngot:  %q\nwant: %q", got, want)
	}

	var nilErr *Error
	if got := nilErr.Error(); got != "" {
		t.Fatalf("unexpected nil error string: %q", got)
	}
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	if e := FieldError("avatar", "This field is required."); e.Kind != KindValidation || len(e.Fields["avatar"]) != 1 {
		t.Fatalf("unexpected field error: %+v", e)
	}
	if e := AuthRequired("Invalid token."); e.Kind != KindAuthRequired || e.Message != "Invalid token." {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e := PermissionDenied("You do not have permission to perform this action."); e.Kind != KindPermissionDenied {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e := NotFound("Not found."); e.Kind != KindNotFound {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e := MethodNotAllowed(`Method "POST" not allowed.`); e.Kind != KindMethodNotAllowed {
		t.Fatalf("unexpected error: %+v", e)
	}
}
