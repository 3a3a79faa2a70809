package repo

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/minigit/pkg/fsio"
	"github.com/odvcencio/minigit/pkg/object"
)

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "expected directory %s", path)
	assert.True(t, info.IsDir(), "%s is not a directory", path)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitCreatesStructure(t *testing.T) {
	base := t.TempDir()

	r, err := Init("test-repo", base)
	require.NoError(t, err)

	root := filepath.Join(base, "test-repo")
	gitDir := filepath.Join(root, ".git")
	assert.Equal(t, root, r.RootDir)
	assert.Equal(t, gitDir, r.GitDir)

	for _, d := range []string{"objects", "refs/heads", "refs/tags", "hooks", "info"} {
		assertDir(t, filepath.Join(gitDir, filepath.FromSlash(d)))
	}
	assert.Equal(t, "ref: refs/heads/master\n", readFile(t, filepath.Join(gitDir, "HEAD")))
	assert.Equal(t, defaultDescription, readFile(t, filepath.Join(gitDir, "description")))

	config := readFile(t, filepath.Join(gitDir, "config"))
	assert.True(t, strings.HasPrefix(config, "[core]\n"), "config = %q", config)
	assert.Contains(t, config, "repositoryformatversion = 0")
	assert.Contains(t, config, "filemode = true")
	assert.Contains(t, config, "bare = false")

	require.NotNil(t, r.Store)
	assert.Equal(t, filepath.Join(gitDir, "objects"), r.Store.Root())
	assert.Equal(t, DefaultConfig(), r.Config)
}

func TestInitIsRepeatable(t *testing.T) {
	base := t.TempDir()
	r, err := Init("repo", base)
	require.NoError(t, err)

	headPath := filepath.Join(r.GitDir, "HEAD")
	require.NoError(t, os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644))
	h, err := r.Store.WriteBlob([]byte("keep me"))
	require.NoError(t, err)

	again, err := Init("repo", base)
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/main\n", readFile(t, headPath), "existing HEAD overwritten")

	data, err := again.Store.ReadBlob(h)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestInitRequiresName(t *testing.T) {
	_, err := Init("  ", t.TempDir())
	require.Error(t, err)
}

func TestOpenFindsRepositoryUpward(t *testing.T) {
	base := t.TempDir()
	r, err := Init("repo", base)
	require.NoError(t, err)

	nested := filepath.Join(r.RootDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	for _, path := range []string{r.RootDir, nested, r.GitDir} {
		opened, err := Open(path)
		require.NoError(t, err, path)
		assert.Equal(t, r.GitDir, opened.GitDir, path)
		assert.Equal(t, r.RootDir, opened.RootDir, path)
	}
}

func TestOpenNotRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestOpenRejectsNewerFormat(t *testing.T) {
	r, err := Init("repo", t.TempDir())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Core.RepositoryFormatVersion = 1
	require.NoError(t, r.WriteConfig(cfg))

	_, err = Open(r.RootDir)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenToleratesGitOnlyConfigSyntax(t *testing.T) {
	r, err := Init("repo", t.TempDir())
	require.NoError(t, err)

	config := "[core]\n\trepositoryformatversion = 0\n[remote \"origin\"]\n\turl = https://example.com/x.git\n"
	require.NoError(t, os.WriteFile(filepath.Join(r.GitDir, "config"), []byte(config), 0o644))

	opened, err := Open(r.RootDir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), opened.Config)
}

func TestResolveRefAndName(t *testing.T) {
	r, err := Init("repo", t.TempDir())
	require.NoError(t, err)

	h, err := r.Store.WriteCommit([]byte("tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n\nfirst\n"))
	require.NoError(t, err)

	// HEAD points at a branch that does not exist yet.
	_, err = r.ResolveRef("HEAD")
	require.ErrorIs(t, err, object.ErrObjectNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(r.GitDir, "refs", "heads", "master"), []byte(string(h)+"\n"), 0o644))

	got, err := r.ResolveRef("HEAD")
	require.NoError(t, err)
	assert.Equal(t, h, got)

	got, err = r.ResolveRef("master")
	require.NoError(t, err)
	assert.Equal(t, h, got)

	for _, name := range []string{"HEAD", "master", "refs/heads/master", string(h[:7]), string(h)} {
		got, err := r.ResolveName(name)
		require.NoError(t, err, name)
		assert.Equal(t, h, got, name)
	}

	_, err = r.ResolveName("no-such-branch")
	require.ErrorIs(t, err, object.ErrObjectNotFound)
}

func TestHead(t *testing.T) {
	r, err := Init("repo", t.TempDir())
	require.NoError(t, err)

	head, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/master", head)
}

// recordingFS logs the paths each operation touches.
type recordingFS struct {
	fsio.OS

	mu     sync.Mutex
	mkdirs []string
	stats  []string
	writes []string
}

func (f *recordingFS) MkdirAll(path string) error {
	f.mu.Lock()
	f.mkdirs = append(f.mkdirs, path)
	f.mu.Unlock()
	return f.OS.MkdirAll(path)
}

func (f *recordingFS) Stat(path string) (fs.FileInfo, error) {
	f.mu.Lock()
	f.stats = append(f.stats, path)
	f.mu.Unlock()
	return f.OS.Stat(path)
}

func (f *recordingFS) WriteFile(path string, data []byte, createParents bool) error {
	f.mu.Lock()
	f.writes = append(f.writes, path)
	f.mu.Unlock()
	return f.OS.WriteFile(path, data, createParents)
}

func TestInitAndOpenUseInjectedFS(t *testing.T) {
	rec := &recordingFS{}
	r, err := Init("repo", t.TempDir(), WithFS(rec))
	require.NoError(t, err)

	assert.Contains(t, rec.mkdirs, filepath.Join(r.GitDir, "objects"))
	assert.Contains(t, rec.mkdirs, filepath.Join(r.GitDir, "refs", "heads"))
	assert.Contains(t, rec.writes, filepath.Join(r.GitDir, "HEAD"))

	h, err := r.Store.WriteBlob([]byte("through the injected fs"))
	require.NoError(t, err)
	path, err := r.Store.ObjectPath(h)
	require.NoError(t, err)
	assert.Contains(t, rec.writes, path)

	nested := filepath.Join(r.RootDir, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	opener := &recordingFS{}
	opened, err := Open(nested, WithFS(opener))
	require.NoError(t, err)
	assert.Equal(t, r.GitDir, opened.GitDir)
	assert.Contains(t, opener.stats, filepath.Join(nested, ".git"))
	assert.Contains(t, opener.stats, r.GitDir)
}
