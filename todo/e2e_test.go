package todo

import (
	"errors"
	"testing"

	"github.com/amonks/todolist/media"
)

func TestEndToEndTodoLifecycle(t *testing.T) {
	store := newTestStore(t, Options{})

	// Empty submissions are ignored.
	if _, err := store.CreateFrom(Draft{Title: ""}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if len(store.Snapshot().Items) != 0 {
		t.Fatal("expected empty collection")
	}

	store.SetDraftField(DraftTitle, "Buy milk")
	milk, err := store.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if milk.Completed || len(milk.Media) != 0 {
		t.Fatalf("unexpected new todo %+v", milk)
	}

	if toggled, _ := store.ToggleCompleted(milk.ID); !toggled.Completed {
		t.Fatal("expected completed")
	}
	if toggled, _ := store.ToggleCompleted(milk.ID); toggled.Completed {
		t.Fatal("expected not completed")
	}

	attached := store.AttachMedia(t.Context(), milk.ID, []media.File{pngFile("receipt.png")}).Attached()
	if len(attached) != 1 || attached[0].MIMEType != media.TypePNG {
		t.Fatalf("expected png attachment, got %+v", attached)
	}
	store.AttachMedia(t.Context(), milk.ID, []media.File{pngFile("shelf.png")}).Wait()

	withTwo, _ := store.Find(milk.ID)
	if len(withTwo.Media) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(withTwo.Media))
	}
	afterRemove, err := store.RemoveMedia(milk.ID, 0)
	if err != nil {
		t.Fatalf("remove media: %v", err)
	}
	if len(afterRemove.Media) != 1 || afterRemove.Media[0].ID != withTwo.Media[1].ID {
		t.Fatalf("expected former index 1 at index 0, got %+v", afterRemove.Media)
	}

	results := store.AttachMedia(t.Context(), milk.ID, []media.File{
		media.FromBytes("invoice.pdf", "application/pdf", []byte("%PDF-1.7")),
	}).Wait()
	if !errors.Is(results[0].Err, ErrUnsupportedMediaType) {
		t.Fatalf("expected pdf rejected, got %v", results[0].Err)
	}
	if got, _ := store.Find(milk.ID); len(got.Media) != 1 {
		t.Fatalf("pdf changed media: %+v", got.Media)
	}

	if err := store.Delete(milk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.Snapshot().Items) != 0 {
		t.Fatal("expected empty collection after delete")
	}
}
