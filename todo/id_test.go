package todo

import (
	"errors"
	"testing"
)

func TestIDIndexPrefixLengthsUseAllIDs(t *testing.T) {
	todos := []Todo{
		{ID: "2u3iutfd"},
		{ID: "2a9k1111"},
		{ID: "abc12345"},
	}

	lengths := NewIDIndex(todos).PrefixLengths()

	if got := lengths["2u3iutfd"]; got != 2 {
		t.Fatalf("expected 2u3iutfd prefix length 2, got %d", got)
	}
	if got := lengths["abc12345"]; got != 1 {
		t.Fatalf("expected abc12345 prefix length 1, got %d", got)
	}
}

func TestIDIndexResolveHandlesAmbiguousPrefixes(t *testing.T) {
	index := NewIDIndex([]Todo{{ID: "2u3iutfd"}, {ID: "2a9k1111"}})

	_, err := index.Resolve("2")
	if !errors.Is(err, ErrAmbiguousTodoIDPrefix) {
		t.Fatalf("expected ErrAmbiguousTodoIDPrefix, got %v", err)
	}
}

func TestIDIndexResolveMatchesCaseInsensitive(t *testing.T) {
	index := NewIDIndex([]Todo{{ID: "2u3iutfd"}})

	resolved, err := index.Resolve("2U3")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != "2u3iutfd" {
		t.Fatalf("expected 2u3iutfd, got %q", resolved)
	}
}

func TestIDIndexResolveEmptyPrefix(t *testing.T) {
	index := NewIDIndex([]Todo{{ID: "2u3iutfd"}})
	if _, err := index.Resolve(""); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}
