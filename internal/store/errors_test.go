package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := &Error{Code: http.StatusNotFound, Message: "recipe not found"}
	if e.Error() != "recipe not found" {
		t.Errorf("Error(): got %q", e.Error())
	}

	wrapped := e.WithCause(fmt.Errorf("no rows"))
	if wrapped.Error() != "recipe not found: no rows" {
		t.Errorf("Error() with cause: got %q", wrapped.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk io")
	e := ErrNotFound.WithCause(cause)

	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestWithMessagePreservesCode(t *testing.T) {
	e := ErrAlreadyExists.WithMessage("username taken")
	if e.Code != http.StatusConflict {
		t.Errorf("Code: got %d, want %d", e.Code, http.StatusConflict)
	}
	if e.Message != "username taken" {
		t.Errorf("Message: got %q", e.Message)
	}
	// The sentinel must not be mutated.
	if ErrAlreadyExists.Message != "resource already exists" {
		t.Errorf("sentinel mutated: %q", ErrAlreadyExists.Message)
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	custom := ErrNotFound.WithMessage("tag tag-1 not found")
	if !errors.Is(custom, ErrNotFound) {
		t.Error("customized error must still match its sentinel")
	}
	if errors.Is(custom, ErrInvalidInput) {
		t.Error("404 error must not match a 400 sentinel")
	}
}

func TestSentinelCodes(t *testing.T) {
	cases := []struct {
		err  *Error
		code int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		if tc.err.HTTPCode() != tc.code {
			t.Errorf("%s: got %d, want %d", tc.err.Message, tc.err.HTTPCode(), tc.code)
		}
	}
}
