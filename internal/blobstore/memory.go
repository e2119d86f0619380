package blobstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const memoryScheme = "memory://"

// MemoryStore keeps blobs in process memory. Used for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	failErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Upload(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(obj.Data) == 0 {
		return "", errors.New("refusing to upload empty object")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", s.failErr
	}

	key := ContentKey(obj)
	s.objects[key] = Object{
		Name:        obj.Name,
		ContentType: obj.ContentType,
		Data:        append([]byte(nil), obj.Data...),
	}
	return memoryScheme + key, nil
}

// Get returns the object stored under uri
func (s *MemoryStore) Get(uri string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[strings.TrimPrefix(uri, memoryScheme)]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// FailWith makes subsequent uploads return err; nil restores normal behavior
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
