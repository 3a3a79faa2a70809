package object

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/odvcencio/minigit/pkg/fsio"
)

// DefaultCacheSize is the number of decoded objects a Store keeps in memory.
const DefaultCacheSize = 256

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: <root>/ab/cdef0123...
//
// Objects are zlib-compressed "type len\0content" frames, so a Store rooted
// at a Git repository's objects/ directory reads and writes loose objects
// Git understands.
type Store struct {
	root  string
	fs    fsio.FS
	log   *zap.Logger
	cache *lru.Cache[Hash, cachedObject]
}

type cachedObject struct {
	objType ObjectType
	data    []byte
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	fs        fsio.FS
	log       *zap.Logger
	cacheSize int
}

// WithFS replaces the filesystem the store reads and writes through.
func WithFS(fsys fsio.FS) StoreOption {
	return func(o *storeOptions) { o.fs = fsys }
}

// WithLogger sets the logger for debug events.
func WithLogger(log *zap.Logger) StoreOption {
	return func(o *storeOptions) { o.log = log }
}

// WithCacheSize sets the number of decoded objects kept in memory. Zero or
// less disables the cache.
func WithCacheSize(n int) StoreOption {
	return func(o *storeOptions) { o.cacheSize = n }
}

// NewStore creates a Store rooted at the given objects directory. Bucket
// directories are created lazily on first write.
func NewStore(root string, opts ...StoreOption) *Store {
	o := storeOptions{
		fs:        fsio.OS{},
		log:       zap.NewNop(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{root: root, fs: o.fs, log: o.log}
	if o.cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		s.cache, _ = lru.New[Hash, cachedObject](o.cacheSize)
	}
	return s
}

// Root returns the objects directory the store is rooted at.
func (s *Store) Root() string {
	return s.root
}

// ObjectPath returns the filesystem path for a full hash. Anything that is
// not a full hex object name fails with ErrObjectNotFound.
func (s *Store) ObjectPath(h Hash) (string, error) {
	h, err := ParseHash(string(h))
	if err != nil {
		return "", err
	}
	return s.objectPath(h), nil
}

// objectPath expects h to have passed ParseHash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, string(h[:bucketNameLen]), string(h[bucketNameLen:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) (bool, error) {
	h, err := ParseHash(string(h))
	if err != nil {
		return false, nil
	}
	path := s.objectPath(h)
	if _, err := s.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &IOError{Op: "object stat", Path: path, Err: err}
	}
	return true, nil
}

// Write stores an object and returns its content hash. Writing content that
// is already present is a no-op that returns the same hash.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if _, err := ParseObjectType(string(objType)); err != nil {
		return "", fmt.Errorf("object write: %w", err)
	}
	framed := Encode(objType, data)
	h := Digest(framed)

	// Fast path: already exists.
	exists, err := s.Has(h)
	if err != nil {
		return "", err
	}
	if exists {
		s.log.Debug("object exists", zap.String("hash", string(h)), zap.String("type", string(objType)))
		return h, nil
	}

	compressed, err := Compress(framed)
	if err != nil {
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}
	path := s.objectPath(h)
	if err := s.fs.WriteFile(path, compressed, true); err != nil {
		return "", &IOError{Op: "object write", Path: path, Err: err}
	}

	s.log.Debug("object written",
		zap.String("hash", string(h)),
		zap.String("type", string(objType)),
		zap.Int("size", len(data)),
		zap.Int("stored", len(compressed)),
	)
	return h, nil
}

// Read retrieves an object by its full hash, returning its type and raw
// content. The returned slice is owned by the caller.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	h, err := ParseHash(string(h))
	if err != nil {
		return "", nil, err
	}

	if s.cache != nil {
		if obj, ok := s.cache.Get(h); ok {
			s.log.Debug("object cache hit", zap.String("hash", string(h)))
			return obj.objType, clone(obj.data), nil
		}
	}

	path := s.objectPath(h)
	stored, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, &NotFoundError{Name: string(h)}
		}
		return "", nil, &IOError{Op: "object read", Path: path, Err: err}
	}

	framed, err := Decompress(stored)
	if err != nil {
		return "", nil, withHash(err, h)
	}
	objType, content, err := Decode(framed)
	if err != nil {
		return "", nil, withHash(err, h)
	}

	if s.cache != nil {
		s.cache.Add(h, cachedObject{objType: objType, data: content})
		return objType, clone(content), nil
	}
	return objType, content, nil
}

func withHash(err error, h Hash) error {
	var me *MalformedObjectError
	if errors.As(err, &me) && me.Hash == "" {
		me.Hash = h
	}
	return err
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: want}
	}
	return data, nil
}

// WriteBlob stores file content as a blob.
func (s *Store) WriteBlob(data []byte) (Hash, error) {
	return s.Write(TypeBlob, data)
}

// ReadBlob reads a blob's content.
func (s *Store) ReadBlob(h Hash) ([]byte, error) {
	return s.readTyped(h, TypeBlob)
}

// WriteTree serializes entries, in order, and stores them as a tree.
func (s *Store) WriteTree(entries []TreeEntry) (Hash, error) {
	data, err := EncodeTree(entries)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and decodes a tree.
func (s *Store) ReadTree(h Hash) ([]TreeEntry, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	entries, err := DecodeTree(data)
	if err != nil {
		return nil, withHash(err, h)
	}
	return entries, nil
}

// WriteCommit stores an already-serialized commit.
func (s *Store) WriteCommit(data []byte) (Hash, error) {
	return s.Write(TypeCommit, data)
}

// ReadCommit reads a commit's raw content.
func (s *Store) ReadCommit(h Hash) ([]byte, error) {
	return s.readTyped(h, TypeCommit)
}
