package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.txt":       "Unrelated content about weather.",
		"a.txt":       "The strawberry model explains recursive self-reference.",
		"c.TXT":       "Upper case extension.",
		"dup.txt":     "Unrelated content about weather.",
		"notes.md":    "markdown is not loaded by default",
		".hidden.txt": "dotfiles are skipped",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))
	writeFiles(t, filepath.Join(dir, "nested.txt"), map[string]string{"inner.txt": "not recursed"})

	c, err := LoadDir(dir, []string{".txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt", "c.TXT", "dup.txt"}, c.IDs())
	doc, ok := c.Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, "The strawberry model explains recursive self-reference.", doc.Content)

	// identical content is kept under both names
	b, _ := c.Get("b.txt")
	dup, _ := c.Get("dup.txt")
	assert.Equal(t, b.Content, dup.Content)
}

func TestLoadDir_MultipleExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":  "a",
		"b.md":   "b",
		"c.srt":  "c",
		"d.json": "d",
	})

	c, err := LoadDir(dir, []string{"txt", ".MD", ".srt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.md", "c.srt"}, c.IDs())
}

func TestLoadDir_Symlinks(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "a", "real.dat": "linked transcript"})
	writeFiles(t, outside, map[string]string{"remote.txt": "outside transcript"})
	require.NoError(t, os.Mkdir(filepath.Join(outside, "sub"), 0o755))

	if err := os.Symlink(filepath.Join(dir, "real.dat"), filepath.Join(dir, "linked.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "remote.txt"), filepath.Join(dir, "remote.txt")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "sub"), filepath.Join(dir, "dirlink.txt")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone.txt"), filepath.Join(dir, "dangling.txt")))

	c, err := LoadDir(dir, []string{".txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "linked.txt", "remote.txt"}, c.IDs())
	doc, ok := c.Get("linked.txt")
	require.True(t, ok)
	assert.Equal(t, "linked transcript", doc.Content)
}

func TestLoadDir_Errors(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"), []string{".txt"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	empty, err := LoadDir(t.TempDir(), []string{".txt"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"x.txt": "x", "y.txt": "y"})
	x := filepath.Join(dir, "x.txt")
	y := filepath.Join(dir, "y.txt")

	c, err := LoadFiles([]string{y, x, y})
	require.NoError(t, err)
	assert.Equal(t, []string{y, x}, c.IDs())

	_, err = LoadFiles([]string{filepath.Join(dir, "nope.txt")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestFromMapAndPosition(t *testing.T) {
	c := FromMap(map[string]string{"b.txt": "b", "a.txt": "a"})

	assert.Equal(t, []string{"a.txt", "b.txt"}, c.IDs())
	assert.Equal(t, 1, c.Position("b.txt"))
	assert.Equal(t, -1, c.Position("z.txt"))
	_, ok := c.Get("z.txt")
	assert.False(t, ok)

	docs := c.Documents()
	docs[0].Content = "mutated"
	a, _ := c.Get("a.txt")
	assert.Equal(t, "a", a.Content)
}
