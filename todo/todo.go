package todo

import (
	"time"

	"github.com/amonks/todolist/media"
)

// Todo is a committed item in the collection.
type Todo struct {
	// ID is a unique 8-char lowercase identifier.
	ID string `json:"id"`

	// Seq is the 1-based creation ordinal within the store's lifetime.
	Seq uint64 `json:"seq"`

	// Title is the short summary of the todo. Never blank.
	Title string `json:"title"`

	// Description provides additional context. May be empty.
	Description string `json:"description"`

	// Completed is a plain flag with no side effects.
	Completed bool `json:"completed"`

	// Media holds attachments in insertion order. Treat as read-only:
	// the backing array may be shared with older snapshots.
	Media []media.Attachment `json:"media"`

	// CreatedAt is when the todo was committed.
	CreatedAt time.Time `json:"created_at"`
}

// Draft is the pending, uncommitted todo.
type Draft struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PendingImage *media.Attachment `json:"pending_image,omitempty"`
}

// IsEmpty reports whether the draft holds nothing.
func (d Draft) IsEmpty() bool {
	return d.Title == "" && d.Description == "" && d.PendingImage == nil
}

// Snapshot is the full store state after a mutation.
type Snapshot struct {
	// Version increases by one on every applied mutation.
	Version uint64 `json:"version"`

	// Items is the collection in insertion order.
	Items []Todo `json:"items"`

	// Draft is the pending todo.
	Draft Draft `json:"draft"`
}

// Find returns the todo with the given ID.
func (s Snapshot) Find(id string) (Todo, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Items[i], true
	}
	return Todo{}, false
}

func (s Snapshot) indexOf(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}
