package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeMalformedResource, "too few segments: %s", "acme/widget")
	if got, want := err.Error(), "MALFORMED_RESOURCE: too few segments: acme/widget"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeTransfer, errors.New("connection reset"), "download %s", "acme.1.0.0.nupkg")
	if got, want := wrapped.Error(), "TRANSFER_FAILED: download acme.1.0.0.nupkg: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeTransfer, cause, "download")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestCodeMatching(t *testing.T) {
	notFound := New(ErrCodeResourceNotFound, "acme 9.9.9")
	transfer := Wrap(ErrCodeTransfer, notFound, "download")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", notFound, ErrCodeResourceNotFound, true},
		{"other code", notFound, ErrCodeTransfer, false},
		{"behind fmt wrap", fmt.Errorf("get: %w", notFound), ErrCodeResourceNotFound, true},
		{"outer code wins", transfer, ErrCodeTransfer, true},
		{"inner code ignored", transfer, ErrCodeResourceNotFound, false},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("resolve: %w", New(ErrCodeArtifactNotFound, "net48"))); got != ErrCodeArtifactNotFound {
		t.Errorf("GetCode() = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeTransfer, errors.New("EOF"), "download acme")
	if got := UserMessage(fmt.Errorf("get: %w", err)); got != "download acme" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pred func(error) bool
		code Code
	}{
		{"IsMalformedResource", IsMalformedResource, ErrCodeMalformedResource},
		{"IsTransfer", IsTransfer, ErrCodeTransfer},
		{"IsArtifactNotFound", IsArtifactNotFound, ErrCodeArtifactNotFound},
		{"IsChecksumUnsupported", IsChecksumUnsupported, ErrCodeChecksumUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(New(tt.code, "x")) {
				t.Error("predicate should match its own code")
			}
			if tt.pred(New(ErrCodeInternal, "x")) {
				t.Error("predicate should not match INTERNAL_ERROR")
			}
		})
	}
}
