package kv

import (
	"context"
	"sort"
	"sync"
)

// Compile-time interface checks.
var (
	_ Opener    = (*MemoryStore)(nil)
	_ Namespace = (*memoryNamespace)(nil)
)

// MemoryStore is a process-local Opener. Nothing survives a restart; it backs
// tests and the --ephemeral CLI mode.
type MemoryStore struct {
	mu         sync.Mutex
	namespaces map[string]*memoryNamespace
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]*memoryNamespace)}
}

// Namespace returns the handle for name, creating it on first use.
func (s *MemoryStore) Namespace(name string) Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.namespaces[name]; ok {
		return ns
	}
	ns := &memoryNamespace{data: make(map[string]string)}
	s.namespaces[name] = ns
	return ns
}

type memoryNamespace struct {
	mu   sync.RWMutex
	data map[string]string
}

func (n *memoryNamespace) Get(_ context.Context, key string) (string, bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.data[key]
	return v, ok, nil
}

func (n *memoryNamespace) Put(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.data[key] = value
	return nil
}

func (n *memoryNamespace) Delete(_ context.Context, key string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.data, key)
	return nil
}

func (n *memoryNamespace) Has(_ context.Context, key string) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.data[key]
	return ok, nil
}

func (n *memoryNamespace) All(_ context.Context) ([]Entry, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	entries := make([]Entry, 0, len(n.data))
	for k, v := range n.data {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (n *memoryNamespace) Clear(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.data = make(map[string]string)
	return nil
}
