package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketBlobs = []byte("blobs")

// BlobStore implements domain.KeyValueStore using BoltDB.
// With an empty base directory it runs memory-only (no persistence),
// which is how tests and one-shot invocations use it.
type BlobStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory map

	mem map[string][]byte
}

// Open creates or opens the blob store for one provider portal. Each portal
// gets its own subdirectory so switching providers never mixes catalogs.
func Open(baseDir, portalURL string) (*BlobStore, error) {
	if baseDir == "" {
		return &BlobStore{mem: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if portalURL != "" {
		dir = filepath.Join(baseDir, hashPortalURL(portalURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "antenna.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlobs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BlobStore{db: db, mem: make(map[string][]byte)}, nil
}

func hashPortalURL(portalURL string) string {
	normalized := strings.TrimRight(strings.ToLower(portalURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *BlobStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the stored value for key, checking the memory map before BoltDB.
// Values read from disk are promoted into the memory map.
func (s *BlobStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	if data, ok := s.mem[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBlobs)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	s.mu.Lock()
	s.mem[key] = data
	s.mu.Unlock()

	return data, true
}

// Set stores value under key in both the memory map and BoltDB.
func (s *BlobStore) Set(key string, value []byte) error {
	data := make([]byte, len(value))
	copy(data, value)

	s.mu.Lock()
	s.mem[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBlobs)
		return b.Put([]byte(key), data)
	})
}

// Remove deletes key from both the memory map and BoltDB.
func (s *BlobStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.mem, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBlobs)
		if b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

// RemovePrefix deletes every key that starts with prefix.
func (s *BlobStore) RemovePrefix(prefix string) error {
	s.mu.Lock()
	for k := range s.mem {
		if strings.HasPrefix(k, prefix) {
			delete(s.mem, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBlobs)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
