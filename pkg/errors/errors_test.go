package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoPatterns, "template %d matches nothing", 2)

	if got := err.Error(); !strings.Contains(got, "template 2 matches nothing") {
		t.Errorf("Error() = %q, want formatted message", got)
	}
	if err.Code != ErrCodeNoPatterns {
		t.Errorf("Code = %s, want NO_PATTERNS", err.Code)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInvalidGraphML, cause, "read %s", "GI.graphml")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if got := err.Error(); !strings.Contains(got, "boom") || !strings.Contains(got, "GI.graphml") {
		t.Errorf("Error() = %q, want message and cause", got)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeContradiction, "node n3 has no color left")
	wrapped := fmt.Errorf("attempt 2: %w", err)

	if !Is(wrapped, ErrCodeContradiction) {
		t.Error("Is() = false through fmt wrapping, want true")
	}
	if Is(wrapped, ErrCodeExhausted) {
		t.Error("Is() = true for different code, want false")
	}
	if Is(nil, ErrCodeContradiction) {
		t.Error("Is(nil) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{
			name: "tagged error",
			err:  New(ErrCodeEmptyCoverage, "x"),
			want: ErrCodeEmptyCoverage,
		},
		{
			name: "wrapped tagged error",
			err:  fmt.Errorf("outer: %w", New(ErrCodeFileNotFound, "x")),
			want: ErrCodeFileNotFound,
		},
		{
			name: "plain error has no code",
			err:  stderrors.New("plain"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(New(ErrCodeContradiction, "x")) {
		t.Error("Retryable(contradiction) = false, want true")
	}
	if Retryable(New(ErrCodeNoPatterns, "x")) {
		t.Error("Retryable(no patterns) = true, want false")
	}
}

func TestUserMessage(t *testing.T) {
	cause := stderrors.New("open /tmp/x: no such file")
	err := Wrap(ErrCodeFileNotFound, cause, "open example graph")

	msg := UserMessage(err)
	if msg == "" {
		t.Fatal("UserMessage() = empty")
	}
	if !strings.Contains(msg, "open example graph") {
		t.Errorf("UserMessage() = %q, want the message text", msg)
	}
}
