package objstore

import (
	"context"
	"io"
	"strings"
	"sync"
)

const memoryBaseURL = "https://files.local"

// InMemory keeps objects in a map. Used in tests and when no bucket is
// configured.
type InMemory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{objects: make(map[string][]byte)}
}

func (s *InMemory) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return memoryBaseURL + "/" + key, nil
}

func (s *InMemory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *InMemory) KeyForURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, memoryBaseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Has reports whether an object is stored. Test helper.
func (s *InMemory) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
