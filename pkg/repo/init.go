package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/minigit/pkg/object"
)

// ErrNotRepository is returned by Open when no .git directory is found.
var ErrNotRepository = errors.New("not a git repository (or any parent up to /)")

const (
	gitDirName = ".git"

	defaultHead        = "ref: refs/heads/master\n"
	defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"
)

func objectsDir(gitDir string) string {
	return filepath.Join(gitDir, "objects")
}

// Init creates the repository <basePath>/<name> with a .git/ directory
// holding objects/, refs/heads/, refs/tags/, hooks/, info/, HEAD, config
// and description. Running Init on an existing repository keeps its files
// and fills in anything missing.
func Init(name, basePath string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("init: repository name is required")
	}

	rootDir := filepath.Join(basePath, name)
	gitDir := filepath.Join(rootDir, gitDirName)

	dirs := []string{
		objectsDir(gitDir),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
		filepath.Join(gitDir, "hooks"),
		filepath.Join(gitDir, "info"),
	}
	for _, d := range dirs {
		if err := o.fs.MkdirAll(d); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	cfg := DefaultConfig()
	configData, err := cfg.Encode()
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{"HEAD", []byte(defaultHead)},
		{"config", configData},
		{"description", []byte(defaultDescription)},
	}
	for _, f := range files {
		path := filepath.Join(gitDir, f.name)
		if _, err := o.fs.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("init: stat %s: %w", f.name, err)
		}
		if err := o.fs.WriteFile(path, f.data, true); err != nil {
			return nil, fmt.Errorf("init: write %s: %w", f.name, err)
		}
	}

	o.log.Debug("repository initialized", zap.String("git_dir", gitDir))

	// Re-read so a reinitialized repository reports its existing config.
	cfg, err = loadConfig(o, gitDir)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return newRepo(rootDir, gitDir, cfg, o), nil
}

// Open locates and opens a repository. A path naming a .git directory is
// used as is; otherwise Open searches upward from path for a .git/
// directory.
func Open(path string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	if filepath.Base(abs) == gitDirName {
		if info, err := o.fs.Stat(abs); err == nil && info.IsDir() {
			return openGitDir(filepath.Dir(abs), abs, o)
		}
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, gitDirName)
		info, err := o.fs.Stat(gitDir)
		if err == nil && info.IsDir() {
			return openGitDir(cur, gitDir, o)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
		}
		cur = parent
	}
}

func openGitDir(rootDir, gitDir string, o options) (*Repo, error) {
	cfg, err := loadConfig(o, gitDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	o.log.Debug("repository opened", zap.String("git_dir", gitDir))
	return newRepo(rootDir, gitDir, cfg, o), nil
}

// Head reads .git/HEAD. If the content starts with "ref: ", it returns the
// ref path (e.g., "refs/heads/master"). Otherwise it returns the raw content
// as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := r.fs.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")
	return strings.TrimPrefix(content, "ref: "), nil
}

// ResolveRef reads a ref without following it into the object store.
//
// Resolution order:
//  1. If name is "HEAD", read HEAD. If HEAD is symbolic, resolve the target ref.
//  2. If name starts with "refs/", read .git/<name>.
//  3. Otherwise, try "refs/heads/<name>" and then "refs/tags/<name>".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(head, "refs/") {
			return r.ResolveRef(head)
		}
		return object.ParseHash(head)
	}

	var candidates []string
	if strings.HasPrefix(name, "refs/") {
		candidates = []string{name}
	} else {
		candidates = []string{"refs/heads/" + name, "refs/tags/" + name}
	}
	for _, ref := range candidates {
		data, err := r.fs.ReadFile(filepath.Join(r.GitDir, filepath.FromSlash(ref)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("resolve ref %q: %w", name, err)
		}
		return object.ParseHash(strings.TrimSpace(string(data)))
	}
	return "", &object.NotFoundError{Name: name}
}

// ResolveName turns a user-supplied object name into a stored hash. Ref
// names are tried first; anything else is resolved as a full or abbreviated
// hash.
func (r *Repo) ResolveName(name string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if h, err := r.ResolveRef(name); err == nil {
		if ok, err := r.Store.Has(h); err == nil && ok {
			return h, nil
		}
	}
	return r.Store.Resolve(name)
}
