package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "grid has %d columns", 0)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "grid has 0 columns" {
		t.Errorf("Message = %v, want %v", err.Message, "grid has 0 columns")
	}

	expected := "INVALID_CONFIG: grid has 0 columns"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeIO, cause, "finalize document")

	if err.Code != ErrCodeIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIO)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"non-matching code", New(ErrCodeInvalidInput, "x"), ErrCodeIO, false},
		{"wrapped error keeps outer code", Wrap(ErrCodeIO, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeIO, true},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrCodeInvalidConfig, "x")), ErrCodeInvalidConfig, true},
		{"validation error", NewValidationError(Issue{Index: 1, Reason: "x"}), ErrCodeValidationFailed, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeAssetUnavailable, "x"), ErrCodeAssetUnavailable},
		{"validation error", fmt.Errorf("batch: %w", NewValidationError()), ErrCodeValidationFailed},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Run("single issue", func(t *testing.T) {
		err := NewValidationError(Issue{Index: 2, Field: "email", Reason: "invalid email 'x'"})
		if err.Error() != "card 2: invalid email 'x'" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("multiple issues one per line", func(t *testing.T) {
		err := NewValidationError(
			Issue{Index: 1, Reason: "a"},
			Issue{Index: 3, Reason: "b"},
		)
		lines := strings.Split(err.Error(), "\n")
		want := []string{"validation failed:", "card 1: a", "card 3: b"}
		if len(lines) != len(want) {
			t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), err.Error())
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
			}
		}
	})
}

func TestValidationErrorErrOrNil(t *testing.T) {
	var nilErr *ValidationError
	if nilErr.ErrOrNil() != nil {
		t.Error("nil receiver should yield nil error")
	}

	v := NewValidationError()
	if v.ErrOrNil() != nil {
		t.Error("empty ValidationError should yield nil error")
	}

	v.Add(Issue{Index: 1, Reason: "x"})
	other := NewValidationError(Issue{Index: 2, Reason: "y"})
	v.Merge(other)
	v.Merge(nil)
	if len(v.Issues) != 2 {
		t.Fatalf("Issues = %d, want 2", len(v.Issues))
	}
	if v.ErrOrNil() == nil {
		t.Error("non-empty ValidationError should yield an error")
	}
}
