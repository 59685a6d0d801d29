package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHasCode(t *testing.T) {
	err := New(CodeExpiredLink, "link has expired")
	if !HasCode(err, CodeExpiredLink) {
		t.Fatalf("expected HasCode to match the error's own code")
	}
	if HasCode(err, CodeInvalidToken) {
		t.Fatalf("expected HasCode to reject a different code")
	}
	if HasCode(errors.New("plain"), CodeExpiredLink) {
		t.Fatalf("expected HasCode to reject a plain error")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("write /tmp/upload: no space left on device")
	err := Wrap(cause, CodeInternal, "failed to stage upload")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
	if !HasCode(err, CodeInternal) {
		t.Fatalf("expected wrapped error to carry its code")
	}

	// fmt-wrapped errors still resolve their code.
	outer := fmt.Errorf("handling upload: %w", err)
	if !HasCode(outer, CodeInternal) {
		t.Fatalf("expected code to survive fmt.Errorf wrapping")
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeMissingToken:    http.StatusUnauthorized,
		CodeInvalidToken:    http.StatusForbidden,
		CodeInactiveLink:    http.StatusForbidden,
		CodeExpiredLink:     http.StatusForbidden,
		CodeUnsupportedType: http.StatusBadRequest,
		CodeFileTooLarge:    http.StatusBadRequest,
		CodeContentMismatch: http.StatusBadRequest,
		CodeInternal:        http.StatusInternalServerError,
		Code("surprise"):    http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ToHTTPStatus(code); got != want {
			t.Fatalf("ToHTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}
