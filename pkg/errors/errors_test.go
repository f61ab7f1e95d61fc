package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidStyle, "invalid style: %q", "sketch")
	want := `INVALID_STYLE: invalid style: "sketch"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeProviderRequest, cause, "call anthropic")

	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("wrapped error should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeProviderResponse, "empty completion")
	outer := Wrap(ErrCodeProviderRequest, inner, "call failed")

	tests := []struct {
		err  error
		code Code
		want bool
	}{
		{outer, ErrCodeProviderRequest, true},
		{outer, ErrCodeProviderResponse, true},
		{outer, ErrCodeInvalidStyle, false},
		{stderrors.New("plain"), ErrCodeInternal, false},
		{nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		if got := IsCode(tt.err, tt.code); got != tt.want {
			t.Errorf("IsCode(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeUnknownTool, "no such tool")); got != ErrCodeUnknownTool {
		t.Errorf("CodeOf = %s, want %s", got, ErrCodeUnknownTool)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, ErrCodeInternal)
	}
}

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name    string
		desc    string
		wantErr bool
	}{
		{"empty is legal", "", false},
		{"plain chain", "A -> B -> C", false},
		{"newlines allowed", "A ->\nB", false},
		{"control characters", "A \x01 B", true},
		{"too long", strings.Repeat("x", MaxDescriptionLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescription(tt.desc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDescription(%q) error = %v, wantErr %v", tt.desc, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("out/diagram.svg"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("empty path should fail")
	}
	if err := ValidateOutputPath("a\x00b"); err == nil {
		t.Error("null byte should fail")
	}
}
