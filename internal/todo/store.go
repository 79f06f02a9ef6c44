// Package todo owns the in-memory todo collection and its mutations.
//
// Every mutation produces a new Snapshot and notifies subscribers
// synchronously; persistence is one such subscriber.
package todo

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/model"
)

// Snapshot is an immutable view of the collection after a mutation.
type Snapshot struct {
	Version uint64
	Todos   []model.Todo
}

// Len is the number of records in the snapshot.
func (s Snapshot) Len() int { return len(s.Todos) }

// Listener observes snapshots. A non-nil error is reported back to the
// caller of the mutation; it does not undo the mutation.
type Listener func(Snapshot) error

// DefaultSamples are the titles prepended by SeedSamples.
var DefaultSamples = []string{
	"Learn Bubble Tea",
	"Practice Lip Gloss",
	"Send the checkpoint",
}

const defaultHistoryLimit = 50

type Option func(*Store)

// WithIDFunc replaces the id generator (uuid.NewString by default).
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithSamples(titles []string) Option {
	return func(s *Store) { s.samples = slices.Clone(titles) }
}

// WithHistoryLimit bounds how many snapshots Undo can walk back. Zero disables undo.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.historyLimit = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

type subscription struct {
	id int
	fn Listener
}

// Store holds the ordered collection, newest first.
type Store struct {
	// writeMu orders mutations and their notifications; mu guards state.
	writeMu sync.Mutex
	mu      sync.Mutex
	todos   []model.Todo
	version uint64
	history [][]model.Todo
	subs    []subscription
	nextSub int

	newID        func() string
	samples      []string
	historyLimit int
	log          *zap.Logger
}

// New creates a store seeded with initial, which is copied.
func New(initial []model.Todo, opts ...Option) *Store {
	s := &Store{
		todos:        slices.Clone(initial),
		newID:        uuid.NewString,
		samples:      slices.Clone(DefaultSamples),
		historyLimit: defaultHistoryLimit,
		log:          zap.NewNop(),
	}
	if s.todos == nil {
		s.todos = []model.Todo{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every subsequent mutation and returns a func
// that removes it. Listeners run on the mutating goroutine and must not
// mutate the store themselves.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}

// Snapshot returns the current collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Find returns the record with id.
func (s *Store) Find(id string) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.todos, func(t model.Todo) bool { return t.ID == id })
	if i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i], true
}

// Add prepends a new pending record. A blank title is ignored without
// notifying subscribers.
func (s *Store) Add(title string) (Snapshot, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s.Snapshot(), nil
	}
	return s.mutate("add", func(cur []model.Todo) []model.Todo {
		next := make([]model.Todo, 0, len(cur)+1)
		next = append(next, model.Todo{ID: s.newID(), Title: title})
		return append(next, cur...)
	})
}

// Toggle flips Done on the record with id. Unknown ids change nothing.
func (s *Store) Toggle(id string) (Snapshot, error) {
	return s.mutate("toggle", func(cur []model.Todo) []model.Todo {
		next := slices.Clone(cur)
		for i := range next {
			if next[i].ID == id {
				next[i].Done = !next[i].Done
			}
		}
		return next
	})
}

// Remove deletes the record with id. Unknown ids change nothing.
func (s *Store) Remove(id string) (Snapshot, error) {
	return s.mutate("remove", func(cur []model.Todo) []model.Todo {
		return slices.DeleteFunc(slices.Clone(cur), func(t model.Todo) bool { return t.ID == id })
	})
}

// ToggleAll marks everything pending when every record is done, and
// everything done otherwise.
func (s *Store) ToggleAll() (Snapshot, error) {
	return s.mutate("toggle-all", func(cur []model.Todo) []model.Todo {
		allDone := !slices.ContainsFunc(cur, func(t model.Todo) bool { return !t.Done })
		next := slices.Clone(cur)
		for i := range next {
			next[i].Done = !allDone
		}
		return next
	})
}

// ClearCompleted drops every done record, keeping the order of the rest.
func (s *Store) ClearCompleted() (Snapshot, error) {
	return s.mutate("clear-completed", func(cur []model.Todo) []model.Todo {
		return slices.DeleteFunc(slices.Clone(cur), func(t model.Todo) bool { return t.Done })
	})
}

// SeedSamples prepends the sample titles, in order, as pending records.
func (s *Store) SeedSamples() (Snapshot, error) {
	return s.mutate("seed-samples", func(cur []model.Todo) []model.Todo {
		next := make([]model.Todo, 0, len(s.samples)+len(cur))
		for _, title := range s.samples {
			next = append(next, model.Todo{ID: s.newID(), Title: title})
		}
		return append(next, cur...)
	})
}

// Undo restores the collection as it was before the last mutation.
// ok is false when there is nothing to undo.
func (s *Store) Undo() (snap Snapshot, ok bool, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	if len(s.history) == 0 {
		snap = s.snapshotLocked()
		s.mu.Unlock()
		return snap, false, nil
	}
	last := len(s.history) - 1
	s.todos = s.history[last]
	s.history = s.history[:last]
	s.version++
	snap = s.snapshotLocked()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.log.Debug("todo mutation", zap.String("op", "undo"), zap.Uint64("version", snap.Version), zap.Int("len", snap.Len()))
	return snap, true, s.notify(subs, snap)
}

func (s *Store) mutate(op string, fn func(cur []model.Todo) []model.Todo) (Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	prev := s.todos
	s.todos = fn(prev)
	if s.historyLimit > 0 {
		s.history = append(s.history, prev)
		if over := len(s.history) - s.historyLimit; over > 0 {
			s.history = slices.Delete(s.history, 0, over)
		}
	}
	s.version++
	snap := s.snapshotLocked()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.log.Debug("todo mutation", zap.String("op", op), zap.Uint64("version", snap.Version), zap.Int("len", snap.Len()))
	return snap, s.notify(subs, snap)
}

func (s *Store) notify(subs []subscription, snap Snapshot) error {
	var errs []error
	for _, sub := range subs {
		// each listener gets its own copy
		if err := sub.fn(Snapshot{Version: snap.Version, Todos: slices.Clone(snap.Todos)}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) snapshotLocked() Snapshot {
	todos := slices.Clone(s.todos)
	if todos == nil {
		todos = []model.Todo{}
	}
	return Snapshot{Version: s.version, Todos: todos}
}
