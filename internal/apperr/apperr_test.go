package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("User not found"), KindNotFound},
		{"conflict", Conflict("Email already taken"), KindConflict},
		{"unauthorized", Unauthorized("bad credentials"), KindUnauthorized},
		{"expired", Expired("token expired"), KindExpired},
		{"bad request", BadRequest("invalid input"), KindBadRequest},
		{"internal", Internal(errors.New("boom")), KindInternal},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped", fmt.Errorf("context: %w", NotFound("gone")), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("Project not found")
	if err.Error() != "Project not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Project not found")
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)
	if !errors.Is(err, cause) {
		t.Error("Internal() should wrap the cause")
	}
	if err.Error() != "connection refused" {
		t.Errorf("Error() = %q, want the cause message", err.Error())
	}
}
