package todo

import (
	"log/slog"
	"sync"
	"time"

	"github.com/amonks/todolist/internal/ids"
	"github.com/amonks/todolist/internal/logging"
	"github.com/amonks/todolist/media"
)

// Store owns the todo collection and the draft.
// It is safe for concurrent use; all mutations are serialized.
type Store struct {
	ingestor    media.Ingestor
	policy      media.Policy
	logger      *slog.Logger
	now         func() time.Time
	concurrency int

	mu          sync.Mutex
	state       Snapshot
	idSeq       uint64
	created     uint64
	issued      map[string]struct{}
	subscribers map[int]func(Snapshot)
	nextSubID   int

	// notifyMu orders subscriber callbacks by version. It is acquired
	// before mu is released so a later mutation cannot overtake an
	// earlier one's notifications.
	notifyMu sync.Mutex
}

// Options configures a Store.
type Options struct {
	// Ingestor converts files into attachments. Defaults to a
	// media.DataURIIngestor without a size limit.
	Ingestor media.Ingestor

	// Policy restricts accepted MIME types. The zero value accepts every
	// built-in type.
	Policy media.Policy

	// Logger receives debug records for rejected input. Defaults to
	// discarding everything.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// IngestConcurrency bounds concurrent ingestion per AttachMedia call.
	// Defaults to DefaultIngestConcurrency.
	IngestConcurrency int
}

// New creates an empty store.
func New(opts Options) *Store {
	if opts.Ingestor == nil {
		opts.Ingestor = media.DataURIIngestor{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IngestConcurrency <= 0 {
		opts.IngestConcurrency = DefaultIngestConcurrency
	}
	return &Store{
		ingestor:    opts.Ingestor,
		policy:      opts.Policy,
		logger:      opts.Logger,
		now:         opts.Now,
		concurrency: opts.IngestConcurrency,
		state:       Snapshot{Items: []Todo{}},
		issued:      make(map[string]struct{}),
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Policy returns the store's media policy.
func (s *Store) Policy() media.Policy {
	return s.policy
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Find returns a copy of the todo with the given ID.
func (s *Store) Find(id string) (*Todo, error) {
	t, ok := s.Snapshot().Find(id)
	if !ok {
		return nil, ErrTodoNotFound
	}
	return &t, nil
}

// IDIndex returns an index of all todo IDs in the store.
func (s *Store) IDIndex() IDIndex {
	return NewIDIndex(s.Snapshot().Items)
}

// Resolve expands a unique ID prefix to a full todo ID.
func (s *Store) Resolve(prefix string) (string, error) {
	return s.IDIndex().Resolve(prefix)
}

// Subscribe registers fn to receive every new snapshot, in version order.
// fn runs synchronously on the mutating goroutine and must not mutate the
// store itself; hand work off to another goroutine instead.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// update applies fn to a copy of the current state. fn must replace, not
// modify, any slice it changes. When fn returns an error the state is left
// untouched and nobody is notified.
func (s *Store) update(fn func(next *Snapshot) error) (Snapshot, error) {
	s.mu.Lock()
	next := s.state
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	next.Version = s.state.Version + 1
	s.state = next

	subscribers := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, notify := range subscribers {
		notify(next)
	}
	return next, nil
}

// nextID allocates an ID never issued before by this store, including IDs
// of deleted todos. Callers hold mu.
func (s *Store) nextID(title string, now time.Time) string {
	for {
		s.idSeq++
		id := ids.GenerateSequenced(title, now, s.idSeq, ids.DefaultLength)
		if _, taken := s.issued[id]; !taken {
			s.issued[id] = struct{}{}
			return id
		}
	}
}

// replaceTodo returns a copy of items with items[i] replaced by t.
func replaceTodo(items []Todo, i int, t Todo) []Todo {
	next := make([]Todo, len(items))
	copy(next, items)
	next[i] = t
	return next
}
