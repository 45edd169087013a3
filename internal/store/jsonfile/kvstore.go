// Package jsonfile provides the durable JSON file store that holds client state
// (auth token, user record, cart) between runs.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hay-kot/skillshop/internal/core/storage"
)

// stateFileVersion is written into every state file. Files without a version are
// read as version 0, which has the same layout.
const stateFileVersion = 1

// StateFile is the root JSON structure stored on disk.
type StateFile struct {
	Version int                      `json:"version"`
	Entries map[string]storage.Entry `json:"entries"`
}

// KVStore implements storage.Store using a JSON file for persistence.
type KVStore struct {
	path string
	mu   sync.RWMutex
}

// NewKVStore creates a new JSON file KV store at the given path.
func NewKVStore(path string) *KVStore {
	return &KVStore{path: path}
}

// Path returns the location of the state file.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) lockPath() string {
	return s.path + ".lock"
}

// withSharedLock executes fn while holding a shared (read) file lock.
func (s *KVStore) withSharedLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_SH, fn)
}

// withExclusiveLock executes fn while holding an exclusive (write) file lock.
// Two processes writing the same file serialize here; the last writer wins.
func (s *KVStore) withExclusiveLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_EX, fn)
}

func (s *KVStore) withFileLock(lockType int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns an entry by key. Returns storage.ErrKeyNotFound if not found.
func (s *KVStore) Get(ctx context.Context, key string) (storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry storage.Entry
		found bool
	)

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		entry, found = file.Entries[key]
		return nil
	})
	if err != nil {
		return storage.Entry{}, err
	}

	if !found {
		return storage.Entry{}, storage.ErrKeyNotFound
	}
	return entry, nil
}

// Set creates or updates an entry.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		now := time.Now()
		entry, exists := file.Entries[key]
		if exists {
			entry.Value = value
			entry.UpdatedAt = now
		} else {
			entry = storage.Entry{
				Key:       key,
				Value:     value,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}

		file.Entries[key] = entry
		return s.save(file)
	})
}

// Delete removes an entry by key. Returns storage.ErrKeyNotFound if not found.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notFound bool

	err := s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		if _, ok := file.Entries[key]; !ok {
			notFound = true
			return nil
		}

		delete(file.Entries, key)
		return s.save(file)
	})
	if err != nil {
		return err
	}

	if notFound {
		return storage.ErrKeyNotFound
	}
	return nil
}

// List returns all entries matching the prefix, ordered by key.
func (s *KVStore) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []storage.Entry

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		for _, entry := range file.Entries {
			if prefix == "" || strings.HasPrefix(entry.Key, prefix) {
				entries = append(entries, entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// load reads the state file from disk.
// Returns an empty StateFile if the file doesn't exist.
func (s *KVStore) load() (StateFile, error) {
	empty := StateFile{Version: stateFileVersion, Entries: make(map[string]storage.Entry)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return StateFile{}, fmt.Errorf("read state file: %w", err)
	}

	if len(data) == 0 {
		return empty, nil
	}

	var file StateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return StateFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if file.Version > stateFileVersion {
		return StateFile{}, fmt.Errorf("parse %s: unsupported state file version %d", s.path, file.Version)
	}

	if file.Entries == nil {
		file.Entries = make(map[string]storage.Entry)
	}
	file.Version = stateFileVersion

	return file, nil
}

// save writes the state file to disk atomically. The file holds a bearer token, so
// it is only readable by the owner.
func (s *KVStore) save(file StateFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
