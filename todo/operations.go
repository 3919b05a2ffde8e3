package todo

import (
	"fmt"
	"slices"

	"github.com/amonks/todolist/media"
)

// Create commits the current draft as a new todo at the tail of the
// collection and resets the draft. A blank title leaves everything,
// including the draft, unchanged. The title is stored as entered.
func (s *Store) Create() (*Todo, error) {
	return s.create(nil)
}

// CreateFrom commits draft as a new todo, ignoring the store's own draft
// fields, and then resets the store's draft.
func (s *Store) CreateFrom(draft Draft) (*Todo, error) {
	return s.create(func(d *Draft) { *d = draft })
}

// CreateWithText commits the current draft with its title and description
// replaced. The staged image, if any, is kept. Reading the draft and
// committing it happen in one mutation.
func (s *Store) CreateWithText(title, description string) (*Todo, error) {
	return s.create(func(d *Draft) {
		d.Title = title
		d.Description = description
	})
}

func (s *Store) create(edit func(d *Draft)) (*Todo, error) {
	var created Todo
	_, err := s.update(func(next *Snapshot) error {
		draft := next.Draft
		if edit != nil {
			edit(&draft)
		}
		if err := ValidateTitle(draft.Title); err != nil {
			return err
		}

		now := s.now()
		s.created++
		created = Todo{
			ID:          s.nextID(draft.Title, now),
			Seq:         s.created,
			Title:       draft.Title,
			Description: draft.Description,
			Media:       []media.Attachment{},
			CreatedAt:   now,
		}
		if draft.PendingImage != nil {
			created.Media = []media.Attachment{*draft.PendingImage}
		}

		next.Items = append(slices.Clip(next.Items), created)
		next.Draft = Draft{}
		return nil
	})
	if err != nil {
		s.logger.Debug("create ignored", "err", err)
		return nil, err
	}
	return &created, nil
}

// ToggleCompleted flips the completed flag of one todo.
func (s *Store) ToggleCompleted(id string) (*Todo, error) {
	return s.updateTodo("toggle", id, func(t *Todo) error {
		t.Completed = !t.Completed
		return nil
	})
}

// Delete removes a todo and its attachments permanently.
func (s *Store) Delete(id string) error {
	_, err := s.update(func(next *Snapshot) error {
		i := next.indexOf(id)
		if i < 0 {
			return ErrTodoNotFound
		}
		next.Items = slices.Delete(slices.Clone(next.Items), i, i+1)
		return nil
	})
	if err != nil {
		s.logger.Debug("delete ignored", "id", id, "err", err)
	}
	return err
}

// RemoveMedia removes the attachment at index from a todo. Later
// attachments shift down by one and keep their relative order.
func (s *Store) RemoveMedia(id string, index int) (*Todo, error) {
	return s.updateTodo("remove media", id, func(t *Todo) error {
		if index < 0 || index >= len(t.Media) {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrMediaIndexOutOfRange, index, len(t.Media))
		}
		t.Media = slices.Delete(slices.Clone(t.Media), index, index+1)
		return nil
	})
}

// RemoveMediaByID removes the attachment with the given ID from a todo.
// Unlike RemoveMedia it is unaffected by concurrent removals shifting
// positions.
func (s *Store) RemoveMediaByID(id, attachmentID string) (*Todo, error) {
	return s.updateTodo("remove media", id, func(t *Todo) error {
		i := slices.IndexFunc(t.Media, func(a media.Attachment) bool { return a.ID == attachmentID })
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrMediaNotFound, attachmentID)
		}
		t.Media = slices.Delete(slices.Clone(t.Media), i, i+1)
		return nil
	})
}

// SetDraftField replaces one text field of the draft. No validation
// happens until the draft is committed.
func (s *Store) SetDraftField(field DraftField, value string) error {
	_, err := s.update(func(next *Snapshot) error {
		switch field {
		case DraftTitle:
			next.Draft.Title = value
		case DraftDescription:
			next.Draft.Description = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownDraftField, field)
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("draft update ignored", "field", field, "err", err)
	}
	return err
}

// ClearStagedImage drops the draft's pending image, keeping its text.
func (s *Store) ClearStagedImage() {
	_, _ = s.update(func(next *Snapshot) error {
		next.Draft.PendingImage = nil
		return nil
	})
}

// updateTodo applies fn to a copy of the todo with the given ID.
func (s *Store) updateTodo(op, id string, fn func(t *Todo) error) (*Todo, error) {
	var updated Todo
	_, err := s.update(func(next *Snapshot) error {
		i := next.indexOf(id)
		if i < 0 {
			return ErrTodoNotFound
		}
		t := next.Items[i]
		if err := fn(&t); err != nil {
			return err
		}
		next.Items = replaceTodo(next.Items, i, t)
		updated = t
		return nil
	})
	if err != nil {
		s.logger.Debug(op+" ignored", "id", id, "err", err)
		return nil, err
	}
	return &updated, nil
}
