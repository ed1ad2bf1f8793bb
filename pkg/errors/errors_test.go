package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeIllegalState, "meter already started")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeIllegalState {
		t.Errorf("expected code %s, got %s", ErrCodeIllegalState, err.Code)
	}
	if err.Message != "meter already started" {
		t.Errorf("expected message 'meter already started', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("bad number")
	ctx := map[string]any{
		"key":    "pos",
		"offset": 14,
	}

	err := WrapWithContext(ErrCodeInvalidRequest, "malformed line", cause, ctx)

	if err.Code != ErrCodeInvalidRequest {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidRequest, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["key"] != "pos" {
		t.Errorf("expected key to be pos")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   ErrorCode
		wantOk bool
	}{
		{"nil", nil, "", false},
		{"plain", errors.New("plain"), "", false},
		{"structured", New(ErrCodeTimeout, "slow"), ErrCodeTimeout, true},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeUnavailable, "down")), ErrCodeUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CodeOf(tt.err)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("CodeOf() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeInvalidRequest, "bad token")
	outer := Wrap(ErrCodeInternal, "decode", inner)

	if !IsCode(outer, ErrCodeInternal) {
		t.Error("expected outer code to match")
	}
	if !IsCode(outer, ErrCodeInvalidRequest) {
		t.Error("expected inner code to match")
	}
	if IsCode(outer, ErrCodeTimeout) {
		t.Error("unexpected match for timeout")
	}
	if IsCode(errors.New("plain"), ErrCodeInternal) {
		t.Error("plain error must not match")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeNotFound,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeIllegalState,
		ErrCodeUnavailable,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
