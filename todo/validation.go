package todo

import (
	"errors"
	"strings"

	"github.com/amonks/todolist/media"
)

var (
	// ErrEmptyTitle is returned when a title is empty or whitespace.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTodoNotFound is returned when no todo has the given ID.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrAmbiguousTodoIDPrefix is returned when an ID prefix matches multiple todos.
	ErrAmbiguousTodoIDPrefix = errors.New("ambiguous todo ID prefix")

	// ErrMediaIndexOutOfRange is returned when removing a missing attachment position.
	ErrMediaIndexOutOfRange = errors.New("media index out of range")

	// ErrMediaNotFound is returned when no attachment has the given ID.
	ErrMediaNotFound = errors.New("media not found")

	// ErrUnknownDraftField is returned for draft fields other than title and description.
	ErrUnknownDraftField = errors.New("unknown draft field")

	// ErrUnsupportedMediaType is returned for files outside the accepted MIME set.
	ErrUnsupportedMediaType = media.ErrUnsupportedType

	// ErrNotImage is returned when staging a file that is not an accepted image.
	ErrNotImage = media.ErrNotImage
)

// ValidateTitle checks that a title has visible content. It is the only
// rule a todo must pass to be committed.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
