package editerr

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{nil, CodeUnknown},
		{errors.New("boom"), CodeUnknown},
		{fmt.Errorf("%w: TOOL_RPM=abc", ErrMalformedParameter), CodeMalformed},
		{fmt.Errorf("%w: Z=3", ErrAnchorNotFound), CodeAnchorNotFound},
		{fmt.Errorf("%w: $VEL.CP=2.5", ErrParameterOutOfRange), CodeOutOfRange},
		{fmt.Errorf("%w: $VEL.CP=0.6", ErrParameterNeedsConfirmation), CodeNeedsConfirmation},
		{fmt.Errorf("%w: line 9", ErrParameterNotFound), CodeNotFound},
		{fmt.Errorf("%w: reading x: %w", ErrIOFailure, os.ErrNotExist), CodeIO},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestClassify_IOKeepsCause(t *testing.T) {
	err := fmt.Errorf("%w: reading x: %w", ErrIOFailure, os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatal("wrapped cause should remain visible to errors.Is")
	}
}

func TestNeedsConfirmation(t *testing.T) {
	if !NeedsConfirmation(fmt.Errorf("step 2: %w", ErrParameterNeedsConfirmation)) {
		t.Fatal("expected wrapped soft failure to need confirmation")
	}
	if NeedsConfirmation(ErrParameterOutOfRange) {
		t.Fatal("hard failure must not be confirmable")
	}
}
