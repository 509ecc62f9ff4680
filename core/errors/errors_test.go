package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "style", ID: "Heading 7"},
			wantMsg:  "style not found: Heading 7",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "anchor"},
			wantMsg:  "anchor not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "file", ID: "test.docx", Err: underlyingErr}
		if got := err.Error(); got != "file not found: test.docx" {
			t.Errorf("Error() = %q, want %q", got, "file not found: test.docx")
		}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with field",
			err:      &ValidationError{Field: "start", Message: "must be less than end"},
			wantMsg:  "validation failed for start: must be less than end",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "without field",
			err:      &ValidationError{Message: "target_text or target_index required"},
			wantMsg:  "validation failed: target_text or target_index required",
			wantBase: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestBoundsError(t *testing.T) {
	err := NewBounds("paragraph", 7, 3)
	want := "paragraph index 7 out of range (length 3)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected BoundsError to unwrap to ErrOutOfRange")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("BoundsError must stay distinct from ErrNotFound")
	}
}

func TestIOError(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := NewIO("open", "report.docx", underlying)
	want := "failed to open report.docx: permission denied"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, underlying) {
		t.Errorf("expected IOError to wrap the underlying error")
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("JSON", "", "unexpected end of input")
	want := "failed to parse JSON: unexpected end of input"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ParseError to unwrap to ErrInvalidInput")
	}

	withPath := NewParse("XML", "word/document.xml", "bad token")
	wantPath := "failed to parse XML at word/document.xml: bad token"
	if got := withPath.Error(); got != wantPath {
		t.Errorf("Error() = %q, want %q", got, wantPath)
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("custom property write", "requires extended part handling")
	want := "unsupported custom property write: requires extended part handling"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected UnsupportedError to unwrap to ErrUnsupported")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
	base := ErrNoDocument
	wrapped := Wrap(base, "save_document")
	if wrapped.Error() != "save_document: no active document" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, ErrNoDocument) {
		t.Errorf("wrapped error should match ErrNoDocument")
	}

	wrappedf := Wrapf(base, "tool %s", "format_text")
	if wrappedf.Error() != "tool format_text: no active document" {
		t.Errorf("Wrapf() = %q", wrappedf.Error())
	}
}
