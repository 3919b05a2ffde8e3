package todo

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/todolist/media"
)

func TestCreateCommitsDraftAndResetsIt(t *testing.T) {
	store := newTestStore(t, Options{})

	if err := store.SetDraftField(DraftTitle, "Buy milk"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	created, err := store.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	snapshot := store.Snapshot()
	if len(snapshot.Items) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(snapshot.Items))
	}
	got := snapshot.Items[0]
	if got.ID != created.ID || got.Title != "Buy milk" || got.Completed || len(got.Media) != 0 {
		t.Fatalf("unexpected todo %+v", got)
	}
	if got.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", got.Seq)
	}
	if !snapshot.Draft.IsEmpty() {
		t.Fatalf("expected draft reset, got %+v", snapshot.Draft)
	}
}

func TestCreateRejectsBlankTitles(t *testing.T) {
	store := newTestStore(t, Options{})

	for _, title := range []string{"", "   ", "\t\n"} {
		if err := store.SetDraftField(DraftTitle, title); err != nil {
			t.Fatalf("set title: %v", err)
		}
		store.SetDraftField(DraftDescription, "kept")
		before := store.Snapshot()

		_, err := store.Create()
		if !errors.Is(err, ErrEmptyTitle) {
			t.Fatalf("expected ErrEmptyTitle for %q, got %v", title, err)
		}
		after := store.Snapshot()
		if len(after.Items) != 0 {
			t.Fatalf("expected no todos, got %d", len(after.Items))
		}
		if after.Version != before.Version {
			t.Fatalf("expected version unchanged, got %d -> %d", before.Version, after.Version)
		}
		if after.Draft.Description != "kept" {
			t.Fatalf("rejected create should keep the draft, got %+v", after.Draft)
		}
	}
}

func TestCreateAdmitsLongTitles(t *testing.T) {
	store := newTestStore(t, Options{})
	title := strings.Repeat("a", 5000)

	created, err := store.CreateFrom(Draft{Title: title})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != title {
		t.Fatalf("expected title kept in full, got %d bytes", len(created.Title))
	}
	if len(store.Snapshot().Items) != 1 {
		t.Fatal("expected todo appended")
	}
}

func TestCreateKeepsTitleAsEntered(t *testing.T) {
	store := newTestStore(t, Options{})

	created := mustCreate(t, store, "  Water plants \n")
	if created.Title != "  Water plants \n" {
		t.Fatalf("expected title unchanged, got %q", created.Title)
	}
}

func TestCreateWithTextKeepsStagedImage(t *testing.T) {
	store := newTestStore(t, Options{})
	if err := store.SetDraftField(DraftTitle, "typed"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := store.SetDraftField(DraftDescription, "typed notes"); err != nil {
		t.Fatalf("set description: %v", err)
	}
	if err := store.StageImage(t.Context(), pngFile("photo.png")).Err(); err != nil {
		t.Fatalf("stage: %v", err)
	}

	created, err := store.CreateWithText("Sent title", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Sent title" || created.Description != "" {
		t.Fatalf("expected overrides applied, got %+v", created)
	}
	if len(created.Media) != 1 || created.Media[0].MIMEType != media.TypePNG {
		t.Fatalf("expected staged image attached, got %+v", created.Media)
	}
	if !store.Snapshot().Draft.IsEmpty() {
		t.Fatalf("expected draft reset, got %+v", store.Snapshot().Draft)
	}
}

func TestCreateWithTextBlankTitleKeepsDraft(t *testing.T) {
	store := newTestStore(t, Options{})
	if err := store.StageImage(t.Context(), pngFile("photo.png")).Err(); err != nil {
		t.Fatalf("stage: %v", err)
	}
	before := store.Snapshot()

	if _, err := store.CreateWithText("  ", "notes"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	after := store.Snapshot()
	if after.Version != before.Version || after.Draft.PendingImage == nil {
		t.Fatalf("expected state unchanged, got %+v", after)
	}
}

func TestNewDefaultsToDiscardLogger(t *testing.T) {
	store := New(Options{})
	if store.logger == nil {
		t.Fatal("expected a logger")
	}
	if store.logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("expected default logger to drop records")
	}
}

func TestCreateSeedsMediaFromPendingImage(t *testing.T) {
	store := newTestStore(t, Options{})
	image := media.NewAttachment("data:image/png;base64,AA==", media.TypePNG)

	created, err := store.CreateFrom(Draft{Title: "Photo", Description: "with image", PendingImage: &image})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.Media) != 1 || created.Media[0].ID != image.ID {
		t.Fatalf("expected pending image as first attachment, got %+v", created.Media)
	}
	if created.Description != "with image" {
		t.Fatalf("unexpected description %q", created.Description)
	}
}

func TestCreateFromResetsStoreDraft(t *testing.T) {
	store := newTestStore(t, Options{})
	store.SetDraftField(DraftTitle, "typed")

	mustCreate(t, store, "explicit")

	if !store.Snapshot().Draft.IsEmpty() {
		t.Fatal("expected store draft reset")
	}
}

func TestCreateAppendsInOrderWithUniqueIDs(t *testing.T) {
	store := newTestStore(t, Options{})

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		// Same title every time: IDs must still differ.
		created := mustCreate(t, store, "same")
		if seen[created.ID] {
			t.Fatalf("duplicate ID %q", created.ID)
		}
		seen[created.ID] = true
	}

	items := store.Snapshot().Items
	for i, item := range items {
		if item.Seq != uint64(i+1) {
			t.Fatalf("expected seq %d at position %d, got %d", i+1, i, item.Seq)
		}
	}
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	fixed := newTestStore(t, Options{})
	first := mustCreate(t, fixed, "a")
	if err := fixed.Delete(first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second := mustCreate(t, fixed, "a")
	if first.ID == second.ID {
		t.Fatal("expected a fresh ID after delete")
	}
}

func TestToggleCompletedTwiceRestores(t *testing.T) {
	store := newTestStore(t, Options{})
	a := mustCreate(t, store, "A")
	b := mustCreate(t, store, "B")

	toggled, err := store.ToggleCompleted(a.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected completed after first toggle")
	}
	if other, _ := store.Find(b.ID); other.Completed {
		t.Fatal("toggle must not affect other todos")
	}

	toggled, err = store.ToggleCompleted(a.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Completed {
		t.Fatal("expected not completed after second toggle")
	}
}

func TestToggleDoesNotTouchMediaOrDescription(t *testing.T) {
	store := newTestStore(t, Options{})
	image := media.NewAttachment("data:image/png;base64,AA==", media.TypePNG)
	created, _ := store.CreateFrom(Draft{Title: "A", Description: "desc", PendingImage: &image})

	toggled, _ := store.ToggleCompleted(created.ID)
	if toggled.Description != "desc" || len(toggled.Media) != 1 {
		t.Fatalf("toggle changed other fields: %+v", toggled)
	}
}

func TestUnknownIDIsNoOp(t *testing.T) {
	store := newTestStore(t, Options{})
	mustCreate(t, store, "A")
	before := store.Snapshot()

	if _, err := store.ToggleCompleted("missing"); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("toggle: expected ErrTodoNotFound, got %v", err)
	}
	if err := store.Delete("missing"); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("delete: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := store.RemoveMedia("missing", 0); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("remove media: expected ErrTodoNotFound, got %v", err)
	}

	if store.Snapshot().Version != before.Version {
		t.Fatal("expected no mutation")
	}
}

func TestDeleteIsFinal(t *testing.T) {
	store := newTestStore(t, Options{})
	a := mustCreate(t, store, "A")
	b := mustCreate(t, store, "B")

	if err := store.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items := store.Snapshot().Items
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("expected only B to remain, got %+v", items)
	}

	if _, err := store.ToggleCompleted(a.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("toggle after delete: %v", err)
	}
	if _, err := store.RemoveMedia(a.ID, 0); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("remove media after delete: %v", err)
	}
	results := store.AttachMedia(t.Context(), a.ID, []media.File{pngFile("a.png")}).Wait()
	if !errors.Is(results[0].Err, ErrTodoNotFound) {
		t.Fatalf("attach after delete: %v", results[0].Err)
	}
	if err := store.Delete(a.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestRemoveMediaShiftsLaterAttachments(t *testing.T) {
	store := newTestStore(t, Options{})
	created := mustCreate(t, store, "A")
	in := store.AttachMedia(t.Context(), created.ID, []media.File{pngFile("one.png")})
	in.Wait()
	in = store.AttachMedia(t.Context(), created.ID, []media.File{pngFile("two.png")})
	in.Wait()
	in = store.AttachMedia(t.Context(), created.ID, []media.File{pngFile("three.png")})
	in.Wait()

	before, _ := store.Find(created.ID)
	updated, err := store.RemoveMedia(created.ID, 0)
	if err != nil {
		t.Fatalf("remove media: %v", err)
	}
	if len(updated.Media) != 2 || updated.Media[0].ID != before.Media[1].ID || updated.Media[1].ID != before.Media[2].ID {
		t.Fatalf("expected former 1 and 2 to remain in order, got %+v", updated.Media)
	}
	if len(before.Media) != 3 {
		t.Fatal("older snapshot must not be modified")
	}
}

func TestRemoveMediaOutOfRange(t *testing.T) {
	store := newTestStore(t, Options{})
	created := mustCreate(t, store, "A")

	for _, index := range []int{-1, 0, 5} {
		if _, err := store.RemoveMedia(created.ID, index); !errors.Is(err, ErrMediaIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrMediaIndexOutOfRange, got %v", index, err)
		}
	}
}

func TestRemoveMediaByID(t *testing.T) {
	store := newTestStore(t, Options{})
	created := mustCreate(t, store, "A")
	attached := store.AttachMedia(t.Context(), created.ID, []media.File{pngFile("one.png"), pngFile("two.png")}).Attached()
	if len(attached) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(attached))
	}

	updated, err := store.RemoveMediaByID(created.ID, attached[0].ID)
	if err != nil {
		t.Fatalf("remove by id: %v", err)
	}
	if len(updated.Media) != 1 || updated.Media[0].ID != attached[1].ID {
		t.Fatalf("unexpected media %+v", updated.Media)
	}
	if _, err := store.RemoveMediaByID(created.ID, attached[0].ID); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestDraftIsIsolatedFromCommittedTodos(t *testing.T) {
	store := newTestStore(t, Options{})
	store.SetDraftField(DraftTitle, "A")
	store.SetDraftField(DraftDescription, "original")
	created, _ := store.Create()

	store.SetDraftField(DraftDescription, "changed")

	got, _ := store.Find(created.ID)
	if got.Description != "original" {
		t.Fatalf("draft edit leaked into committed todo: %q", got.Description)
	}
}

func TestSetDraftFieldRejectsUnknownField(t *testing.T) {
	store := newTestStore(t, Options{})
	if err := store.SetDraftField("priority", "high"); !errors.Is(err, ErrUnknownDraftField) {
		t.Fatalf("expected ErrUnknownDraftField, got %v", err)
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	store := newTestStore(t, Options{})
	a := mustCreate(t, store, "A")
	old := store.Snapshot()

	store.ToggleCompleted(a.ID)
	mustCreate(t, store, "B")

	if old.Items[0].Completed || len(old.Items) != 1 {
		t.Fatalf("old snapshot changed: %+v", old.Items)
	}
	if store.Snapshot().Version <= old.Version {
		t.Fatal("expected version to increase")
	}
}

func TestSubscribeReceivesEverySnapshotInOrder(t *testing.T) {
	store := newTestStore(t, Options{})
	ch := snapshots(t, store)

	store.SetDraftField(DraftTitle, "A")
	store.Create()
	store.Create() // rejected: draft was reset

	first := <-ch
	second := <-ch
	if first.Version+1 != second.Version {
		t.Fatalf("expected consecutive versions, got %d and %d", first.Version, second.Version)
	}
	if len(second.Items) != 1 {
		t.Fatalf("expected the create snapshot, got %+v", second)
	}
	select {
	case extra := <-ch:
		t.Fatalf("rejected create must not publish, got version %d", extra.Version)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	store := newTestStore(t, Options{})
	calls := 0
	unsubscribe := store.Subscribe(func(Snapshot) { calls++ })

	store.SetDraftField(DraftTitle, "A")
	unsubscribe()
	unsubscribe()
	store.SetDraftField(DraftTitle, "B")

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestResolvePrefix(t *testing.T) {
	store := newTestStore(t, Options{})
	created := mustCreate(t, store, "A")

	resolved, err := store.Resolve(strings.ToUpper(created.ID[:6]))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != created.ID {
		t.Fatalf("expected %q, got %q", created.ID, resolved)
	}
	if _, err := store.Resolve("zzzzzzzzz"); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestConcurrentMutationsKeepInvariants(t *testing.T) {
	store := newTestStore(t, Options{})
	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				created, err := store.CreateFrom(Draft{Title: "task"})
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				store.ToggleCompleted(created.ID)
			}
		}()
	}
	wg.Wait()

	snapshot := store.Snapshot()
	if len(snapshot.Items) != workers*perWorker {
		t.Fatalf("expected %d todos, got %d", workers*perWorker, len(snapshot.Items))
	}
	seen := make(map[string]bool)
	for i, item := range snapshot.Items {
		if seen[item.ID] {
			t.Fatalf("duplicate ID %q", item.ID)
		}
		seen[item.ID] = true
		if !item.Completed {
			t.Fatalf("todo %q lost its toggle", item.ID)
		}
		if item.Seq != uint64(i+1) {
			t.Fatalf("collection order differs from creation order at %d", i)
		}
	}
	if snapshot.Version != uint64(2*workers*perWorker) {
		t.Fatalf("expected version %d, got %d", 2*workers*perWorker, snapshot.Version)
	}
}
