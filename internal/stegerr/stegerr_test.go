package stegerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorIsMatchesCode(t *testing.T) {
	err := New(CodeCorruptHeader, "bad magic %q", "XXXX")

	if !errors.Is(err, ErrCorruptHeader) {
		t.Errorf("expected errors.Is to match ErrCorruptHeader")
	}
	if errors.Is(err, ErrTruncatedData) {
		t.Errorf("errors.Is matched a different code")
	}

	wrapped := fmt.Errorf("extract: %w", err)
	if !errors.Is(wrapped, ErrCorruptHeader) {
		t.Errorf("expected match through fmt.Errorf wrapping")
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(CodeInsufficientCapacity, "need %d bits, have %d", 10, 5)
	want := "image too small to hold the data: need 10 bits, have 5"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(CodeInternal, nil, "x") != nil {
		t.Errorf("Wrap(nil) should be nil")
	}

	err := Wrap(CodeUnsupportedImageFormat, io.ErrUnexpectedEOF, "decode")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("cause should stay reachable through Unwrap")
	}
	if CodeOf(err) != CodeUnsupportedImageFormat {
		t.Errorf("expected code %s, got %s", CodeUnsupportedImageFormat, CodeOf(err))
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if CodeOf(io.EOF) != CodeInternal {
		t.Errorf("expected CodeInternal for a foreign error")
	}
}
