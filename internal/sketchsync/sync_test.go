package sketchsync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSyncFiltersByExtension(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, src, "blink.cpp", "// cpp")
	writeFile(t, src, "blink.h", "// header")
	writeFile(t, src, "notes.txt", "not source")
	writeFile(t, src, "README.md", "docs")

	changed, err := Sync(src, dst)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.FileExists(t, filepath.Join(dst, "blink.cpp"))
	assert.FileExists(t, filepath.Join(dst, "blink.h"))
	assert.NoFileExists(t, filepath.Join(dst, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "README.md"))
}

func TestSyncTransformsIno(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, src, "blink.ino", "void setup() {}\nvoid loop() {}\n")

	changed, err := Sync(src, dst)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.NoFileExists(t, filepath.Join(dst, "blink.ino"))

	content, err := os.ReadFile(filepath.Join(dst, "blink.cpp"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "#include <Arduino.h>"))
	assert.Contains(t, string(content), "void loop() {}")
}

func TestSyncSkipsUnchanged(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, src, "lib/effect.hpp", "// effect")

	changed, err := Sync(src, dst)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = Sync(src, dst)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSyncRemovesOrphans(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, src, "keep.cpp", "// keep")
	writeFile(t, dst, "gone.cpp", "// removed upstream")

	changed, err := Sync(src, dst)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.FileExists(t, filepath.Join(dst, "keep.cpp"))
	assert.NoFileExists(t, filepath.Join(dst, "gone.cpp"))
}

func TestSyncSkipsHiddenDirectories(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, src, ".cache/cached.cpp", "// tool litter")
	writeFile(t, src, "main.cpp", "// main")

	_, err := Sync(src, dst)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dst, ".cache", "cached.cpp"))
	assert.FileExists(t, filepath.Join(dst, "main.cpp"))
}

func TestSyncMissingDestination(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "not-yet-created")

	writeFile(t, src, "main.cpp", "// main")

	changed, err := Sync(src, dst)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.FileExists(t, filepath.Join(dst, "main.cpp"))
}
