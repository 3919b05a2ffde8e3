package todo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amonks/todolist/media"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Now == nil {
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		var tick atomic.Int64
		opts.Now = func() time.Time {
			return base.Add(time.Duration(tick.Add(1)) * time.Second)
		}
	}
	return New(opts)
}

func mustCreate(t *testing.T, store *Store, title string) *Todo {
	t.Helper()
	created, err := store.CreateFrom(Draft{Title: title})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return created
}

func pngFile(name string) media.File {
	return media.FromBytes(name, media.TypePNG, pngBytes)
}

// gatedIngestor blocks each file until its gate is released.
type gatedIngestor struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls atomic.Int32
}

func newGatedIngestor(names ...string) *gatedIngestor {
	g := &gatedIngestor{gates: make(map[string]chan struct{})}
	for _, name := range names {
		g.gates[name] = make(chan struct{})
	}
	return g
}

func (g *gatedIngestor) release(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[name])
}

func (g *gatedIngestor) Ingest(ctx context.Context, file media.File) (media.Attachment, error) {
	g.calls.Add(1)
	g.mu.Lock()
	gate := g.gates[file.Name()]
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return media.Attachment{}, ctx.Err()
		}
	}
	return media.NewAttachment("data:"+file.MIMEType()+";base64,"+file.Name(), file.MIMEType()), nil
}

// snapshots collects every published snapshot.
func snapshots(t *testing.T, store *Store) <-chan Snapshot {
	t.Helper()
	ch := make(chan Snapshot, 64)
	unsubscribe := store.Subscribe(func(s Snapshot) { ch <- s })
	t.Cleanup(unsubscribe)
	return ch
}

func waitFor(t *testing.T, ch <-chan Snapshot, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s := <-ch:
			if cond(s) {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func mediaURIs(t Todo) []string {
	uris := make([]string, 0, len(t.Media))
	for _, a := range t.Media {
		uris = append(uris, a.URI)
	}
	return uris
}
