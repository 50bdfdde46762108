package vtree

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"vera/internal/source"
)

// Current schema version - increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists verification progress keyed by file content hash so a
// cold start can skip re-verifying unchanged files. Strictly best-effort:
// every failure degrades to "no cached tree". Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the serialized form of one progress tree.
type DiskPayload struct {
	Schema uint16
	Hash   [32]byte
	Spans  []payloadSpan
}

type payloadSpan struct {
	File   uint32
	Start  uint32
	End    uint32
	Status uint8
}

// OpenDiskCache initializes a disk cache. An empty dir selects the
// standard per-user cache location.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "vera")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(hash [32]byte) string {
	// Subdirectory "trees" keeps the cache root inspectable by hand.
	return filepath.Join(c.dir, "trees", hex.EncodeToString(hash[:])+".mp")
}

// Put serializes and writes a tree to the disk cache atomically.
func (c *DiskCache) Put(t *Tree) error {
	if c == nil || t == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := DiskPayload{Schema: diskCacheSchemaVersion, Hash: t.Hash}
	for _, n := range t.Nodes() {
		payload.Spans = append(payload.Spans, payloadSpan{
			File:   uint32(n.Span.File),
			Start:  n.Span.Start,
			End:    n.Span.End,
			Status: uint8(n.Status),
		})
	}

	p := c.pathFor(t.Hash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // already renamed on success

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the cached tree for a content hash. Missing entries and
// schema mismatches answer (nil, nil).
func (c *DiskCache) Get(hash [32]byte) (*Tree, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Hash != hash {
		return nil, nil
	}
	tree := New(hash)
	for _, s := range payload.Spans {
		tree.Set(source.Span{File: source.FileID(s.File), Start: s.Start, End: s.End}, Status(s.Status))
	}
	return tree, nil
}

// Stats reports the number of cached trees and their total size in bytes.
func (c *DiskCache) Stats() (entries int, bytes int64, err error) {
	if c == nil {
		return 0, 0, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	root := filepath.Join(c.dir, "trees")
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, os.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() || filepath.Ext(path) != ".mp" {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		entries++
		bytes += info.Size()
		return nil
	})
	return entries, bytes, err
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
