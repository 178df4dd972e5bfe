package virtualdocs

import (
	"path/filepath"
	"strings"
	"sync"
)

// Placeholder is returned by Get for keys with no stored document.
const Placeholder = "// recast: no content available for this document"

// ContentProvider is the read-only capability the diff renderer consumes:
// resolve a virtual key to its content.
type ContentProvider interface {
	Resolve(key string) string
}

// Store maps virtual document keys to generated content. It lives for the
// process lifetime, is owned by the orchestrating controller, and keeps
// last-write-wins semantics when a later run rewrites the same path.
type Store struct {
	mu   sync.RWMutex
	docs map[string]string
}

func NewStore() *Store {
	return &Store{docs: make(map[string]string)}
}

// Key derives the stable virtual key for a workspace-relative path.
func Key(path string) string {
	return filepath.ToSlash(strings.TrimPrefix(path, "./"))
}

// Put upserts the content for a key, replacing any prior value.
func (s *Store) Put(key, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = content
}

// Get returns the stored content, or Placeholder when the key is unknown.
// It never fails; redraws may call it repeatedly.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if content, ok := s.docs[key]; ok {
		return content
	}
	return Placeholder
}

// Len reports how many documents are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Resolve implements ContentProvider.
func (s *Store) Resolve(key string) string {
	return s.Get(key)
}
