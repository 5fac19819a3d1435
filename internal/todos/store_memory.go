package todos

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps todos in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	todos map[string]memoryEntry
	seq   uint64
	now   func() time.Time
}

// memoryEntry remembers insertion order so List is stable even when two
// todos share a timestamp.
type memoryEntry struct {
	todo Todo
	seq  uint64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

// List returns all todos ordered by creation time
func (s *MemoryStore) List(_ context.Context) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]memoryEntry, 0, len(s.todos))
	for _, e := range s.todos {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	out := make([]Todo, len(entries))
	for i, e := range entries {
		out[i] = e.todo
	}
	return out, nil
}

// Get returns one todo
func (s *MemoryStore) Get(_ context.Context, id string) (Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.todos[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	return e.todo, nil
}

// Create adds a new, not yet completed todo
func (s *MemoryStore) Create(_ context.Context, text string) (Todo, error) {
	text, err := normalizeText(text)
	if err != nil {
		return Todo{}, err
	}

	now := s.now().UTC()
	t := Todo{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.seq++
	s.todos[t.ID] = memoryEntry{todo: t, seq: s.seq}
	s.mu.Unlock()

	return t, nil
}

// Update applies a partial update
func (s *MemoryStore) Update(_ context.Context, id string, patch Patch) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.todos[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	t, err := patch.apply(e.todo, s.now().UTC())
	if err != nil {
		return Todo{}, err
	}
	e.todo = t
	s.todos[id] = e
	return t, nil
}

// Delete removes a todo
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
