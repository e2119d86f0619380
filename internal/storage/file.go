package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/artisanhub/artisanhub-api/internal/logger"
)

// FileStore keeps entries in a JSON object on disk
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Open returns the file store for scope, or Noop when no suitable directory exists
func Open(scope Scope) Store {
	path, err := DefaultPath(scope)
	if err != nil {
		logger.Warn("Storage unavailable, continuing without persistence", logger.Fields{
			"scope": scope.String(),
			"error": err.Error(),
		})
		return Noop{}
	}
	return NewFileStore(path)
}

// DefaultPath is the user config dir for local scope and the temp dir, keyed
// by the parent shell, for session scope.
func DefaultPath(scope Scope) (string, error) {
	if scope == ScopeSession {
		return filepath.Join(os.TempDir(), fmt.Sprintf("artisanhub-session-%d.json", os.Getppid())), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "artisanhub", "local.json"), nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.read()
	v, ok := entries[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.read()
	entries[key] = value
	s.write(entries, key)
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.read()
	if _, ok := entries[key]; !ok {
		return
	}
	delete(entries, key)
	s.write(entries, key)
}

func (s *FileStore) read() map[string]string {
	entries := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read storage file", logger.Fields{"path": s.path, "error": err.Error()})
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("Ignoring corrupt storage file", logger.Fields{"path": s.path, "error": err.Error()})
		return make(map[string]string)
	}
	return entries
}

func (s *FileStore) write(entries map[string]string, key string) {
	fail := func(err error) {
		logger.Warn("Failed to write storage file", logger.Fields{"path": s.path, "key": key, "error": err.Error()})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		fail(err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		fail(err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		fail(err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		fail(err)
	}
}
