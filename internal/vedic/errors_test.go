package vedic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/litescript/ls-jyotish/internal/ephem"
)

func TestError_Is(t *testing.T) {
	cause := fmt.Errorf("swe: %w", ephem.ErrUnsupportedBody)
	err := fmt.Errorf("chart: %w", &Error{Kind: KindCalculation, Op: "sample", Subject: "Mars", Err: cause})

	if !errors.Is(err, ErrCalculation) {
		t.Error("should match ErrCalculation")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("should not match ErrValidation")
	}
	if !errors.Is(err, ephem.ErrUnsupportedBody) {
		t.Error("cause should be reachable")
	}
	if KindOf(err) != KindCalculation {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("plain errors have no kind")
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindCalculation, Op: "sample", Subject: "Mars", Err: errors.New("boom")}
	if got, want := err.Error(), "calculation failure: sample Mars: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := ErrNotInitialized.Error(); got != "not initialized" {
		t.Errorf("sentinel Error() = %q", got)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		KindNotInitialized: "not initialized",
		KindCalculation:    "calculation failure",
		KindValidation:     "validation failure",
		Kind(0):            "unknown",
	}
	for k, want := range tests {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
