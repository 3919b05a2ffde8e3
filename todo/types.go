// Package todo implements an in-memory todo list with media attachments.
//
// A Store owns an ordered collection of todos and a single draft. Every
// mutation replaces the collection with a new value and publishes an
// immutable Snapshot, so readers holding an older snapshot never see a
// half-applied change.
//
// The public API mirrors what a list UI needs:
//   - SetDraftField, StageImage, ClearStagedImage for the pending todo
//   - Create, CreateFrom to commit a draft
//   - ToggleCompleted, Delete for committed todos
//   - AttachMedia, RemoveMedia, RemoveMediaByID for attachments
//
// Invalid input never fails loudly: operations return a sentinel error and
// leave the state exactly as it was.
package todo

import (
	"strings"

	"github.com/amonks/todolist/internal/validation"
)

// DraftField names an editable text field of the draft.
type DraftField string

const (
	// DraftTitle is the draft's title.
	DraftTitle DraftField = "title"

	// DraftDescription is the draft's description.
	DraftDescription DraftField = "description"
)

// ValidDraftFields returns all draft fields.
func ValidDraftFields() []DraftField {
	return []DraftField{DraftTitle, DraftDescription}
}

// ParseDraftField parses a field name. "text" is accepted as an alias for
// the title.
func ParseDraftField(name string) (DraftField, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title", "text":
		return DraftTitle, nil
	case "description", "desc":
		return DraftDescription, nil
	default:
		return "", validation.FormatInvalidValueError(ErrUnknownDraftField, DraftField(name), ValidDraftFields())
	}
}

// DefaultIngestConcurrency bounds how many files of one AttachMedia call
// are ingested at once.
const DefaultIngestConcurrency = 4
