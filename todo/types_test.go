package todo

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDraftField(t *testing.T) {
	tests := map[string]DraftField{
		"title":       DraftTitle,
		" Title ":     DraftTitle,
		"text":        DraftTitle,
		"description": DraftDescription,
		"desc":        DraftDescription,
	}
	for input, want := range tests {
		got, err := ParseDraftField(input)
		if err != nil {
			t.Fatalf("ParseDraftField(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseDraftField(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseDraftField("priority"); !errors.Is(err, ErrUnknownDraftField) {
		t.Fatalf("expected ErrUnknownDraftField, got %v", err)
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("ok"); err != nil {
		t.Fatalf("expected valid title, got %v", err)
	}
	if err := ValidateTitle(" \t "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := ValidateTitle(strings.Repeat("x", 10000)); err != nil {
		t.Fatalf("expected long title to be valid, got %v", err)
	}
}

func TestDraftIsEmpty(t *testing.T) {
	if !(Draft{}).IsEmpty() {
		t.Fatal("zero draft should be empty")
	}
	if (Draft{Description: "x"}).IsEmpty() {
		t.Fatal("draft with description is not empty")
	}
}

func TestParseDraftFieldListsValidFields(t *testing.T) {
	_, err := ParseDraftField("colour")
	if err == nil {
		t.Fatal("expected error")
	}
	want := `unknown draft field: "colour" (valid: title, description)`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
