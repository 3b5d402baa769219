package objstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DiskStore stores objects on the local filesystem. Each object is a
// file under dir plus a ".meta" JSON sidecar holding its content type.
type DiskStore struct {
	dir     string
	maxSize int64

	// mu serializes writers so a Put and a Delete of one key cannot
	// interleave.
	mu sync.Mutex
}

type diskMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a new DiskStore.
//
// Parameters:
//   - dir: Directory to store objects in (created if missing)
//   - maxSize: Maximum object size in bytes (0 = no limit)
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the store directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Get opens the object stored under key.
func (s *DiskStore) Get(ctx context.Context, key string) (*Object, error) {
	key, err := s.cleanKey(key)
	if err != nil {
		return nil, err
	}

	p := s.objectPath(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	contentType := defaultContentType
	if meta, err := s.loadMeta(key); err == nil && meta.ContentType != "" {
		contentType = meta.ContentType
	}

	return &Object{
		Key:         key,
		ContentType: contentType,
		Size:        info.Size(),
		Body:        f,
	}, nil
}

// Put stores r under key.
func (s *DiskStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	key, err := s.cleanKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	// Write to a temp file and rename so readers never see a partial
	// object.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var reader io.Reader = r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1) // +1 to detect overflow
	}
	written, err := io.Copy(tmp, reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if s.maxSize > 0 && written > s.maxSize {
		return ErrTooLarge
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return err
	}

	if contentType == "" {
		contentType = defaultContentType
	}
	return s.saveMeta(key, &diskMeta{
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now(),
	})
}

// Delete removes key and its metadata.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	key, err := s.cleanKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.objectPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Remove(s.metaPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// cleanKey also rejects names the store uses for its own files.
func (s *DiskStore) cleanKey(key string) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	base := path.Base(key)
	if strings.HasSuffix(base, ".meta") || strings.HasPrefix(base, ".put-") {
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidKey, key)
	}
	return key, nil
}

func (s *DiskStore) objectPath(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

func (s *DiskStore) metaPath(key string) string {
	return s.objectPath(key) + ".meta"
}

func (s *DiskStore) saveMeta(key string, meta *diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(key), data, 0644)
}

func (s *DiskStore) loadMeta(key string) (*diskMeta, error) {
	data, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return nil, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
