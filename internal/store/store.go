// Package store persists the todo collection as one serialized value under
// a fixed key of a local key-value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

// Key is where the collection lives in every backend.
const Key = "todos-v1"

var ErrClosed = errors.New("store: backend closed")

// Backend is a string key-value store that outlives the process.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Adapter reads and writes the collection through a Backend.
type Adapter struct {
	backend Backend
	log     *zap.Logger
}

func NewAdapter(b Backend, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{backend: b, log: log}
}

// Load returns the stored collection. A missing, unreadable or malformed
// value yields an empty collection; the failure is logged, never returned.
func (a *Adapter) Load(ctx context.Context) []model.Todo {
	raw, ok, err := a.backend.Get(ctx, Key)
	if err != nil {
		a.log.Warn("load todos: read failed, starting empty", zap.String("key", Key), zap.Error(err))
		return []model.Todo{}
	}
	if !ok {
		return []model.Todo{}
	}
	todos, err := decode(raw)
	if err != nil {
		a.log.Warn("load todos: discarding malformed payload", zap.String("key", Key), zap.Error(err))
		return []model.Todo{}
	}
	a.log.Debug("loaded todos", zap.Int("len", len(todos)))
	return todos
}

// Save writes the whole collection. Backend failures are returned.
func (a *Adapter) Save(ctx context.Context, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := a.backend.Set(ctx, Key, string(b)); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// Persist returns a store listener that saves every snapshot.
func (a *Adapter) Persist(ctx context.Context) todo.Listener {
	return func(snap todo.Snapshot) error {
		if err := a.Save(ctx, snap.Todos); err != nil {
			a.log.Error("persist snapshot", zap.Uint64("version", snap.Version), zap.Error(err))
			return err
		}
		return nil
	}
}

func decode(raw string) ([]model.Todo, error) {
	var todos []model.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := model.ValidateAll(todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Memory is a Backend kept in process memory.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
