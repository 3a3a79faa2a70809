package repo

import (
	"go.uber.org/zap"

	"github.com/odvcencio/minigit/pkg/fsio"
	"github.com/odvcencio/minigit/pkg/object"
)

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Config  *Config       // parsed .git/config
	Store   *object.Store // loose object store under .git/objects

	fs  fsio.FS
	log *zap.Logger
}

// Option configures Init and Open.
type Option func(*options)

type options struct {
	fs        fsio.FS
	log       *zap.Logger
	storeOpts []object.StoreOption
}

// WithLogger sets the logger used by the repository and its object store.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
		o.storeOpts = append(o.storeOpts, object.WithLogger(log))
	}
}

// WithFS replaces the filesystem used for repository files and objects.
func WithFS(fsys fsio.FS) Option {
	return func(o *options) {
		o.fs = fsys
		o.storeOpts = append(o.storeOpts, object.WithFS(fsys))
	}
}

// WithStoreOptions passes extra options to the object store.
func WithStoreOptions(opts ...object.StoreOption) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, opts...) }
}

func buildOptions(opts []Option) options {
	o := options{fs: fsio.OS{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newRepo(rootDir, gitDir string, cfg *Config, o options) *Repo {
	return &Repo{
		RootDir: rootDir,
		GitDir:  gitDir,
		Config:  cfg,
		Store:   object.NewStore(objectsDir(gitDir), o.storeOpts...),
		fs:      o.fs,
		log:     o.log,
	}
}
