package cache

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// entryMagic starts every file cache entry. The header line is
//
//	dvc1 <expiry unix nanoseconds, 0 for none>\n
//
// followed by the raw value, so frame bundles and photos are stored
// without re-encoding.
const (
	entryMagic = "dvc1"
	entryExt   = ".entry"
)

// FileCache stores one file per key under dir, sharded by key hash.
// Expired and unreadable entries are removed on read.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens a file cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, data, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && c.now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry to a temporary file and renames it into place, so
// readers never see a partial value.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeEntry(expires, data)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Clear removes everything under the cache directory and returns the number
// of entries that were stored.
func (c *FileCache) Clear() (int, error) {
	count := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == entryExt {
			count++
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	children, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	for _, e := range children {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return count, err
		}
	}
	return count, nil
}

// path shards entries into 256 subdirectories by the first byte of the key
// hash.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(expires time.Time, data []byte) []byte {
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}
	header := fmt.Sprintf("%s %d\n", entryMagic, nanos)
	out := make([]byte, 0, len(header)+len(data))
	return append(append(out, header...), data...)
}

// decodeEntry splits raw into expiry and value. ok is false for anything
// not written by encodeEntry.
func decodeEntry(raw []byte) (expires time.Time, data []byte, ok bool) {
	header, data, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return time.Time{}, nil, false
	}
	magic, stamp, found := bytes.Cut(header, []byte{' '})
	if !found || string(magic) != entryMagic {
		return time.Time{}, nil, false
	}
	nanos, err := strconv.ParseInt(string(stamp), 10, 64)
	if err != nil {
		return time.Time{}, nil, false
	}
	if nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	return expires, data, true
}

var _ Cache = (*FileCache)(nil)
