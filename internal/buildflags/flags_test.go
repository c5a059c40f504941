package buildflags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profile = `
base:
  defines:
    - -DBASE=1
  compilerFlags:
    - -std=gnu++17
sketch:
  defines:
    - -DSKETCH=1
library:
  compilerFlags:
    - -flibrary
includeFlags:
  - -Iinclude
modes:
  quick:
    flags:
      - -O0
    linkFlags:
      - -sQUICK_LINK
  release:
    flags:
      - -Oz
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(profile))
	require.NoError(t, err)
	assert.Len(t, c.Modes, 2)
}

func TestParseWithoutModes(t *testing.T) {
	_, err := Parse([]byte("base:\n  defines: [-DX]\n"))
	assert.Error(t, err)
}

func TestFlagsOrdering(t *testing.T) {
	c, err := Parse([]byte(profile))
	require.NoError(t, err)

	flags, err := c.Flags(ScopeSketch, "quick")
	require.NoError(t, err)
	assert.Equal(t, []string{"-DBASE=1", "-std=gnu++17", "-DSKETCH=1", "-O0"}, flags)

	flags, err = c.Flags(ScopeLibrary, "release")
	require.NoError(t, err)
	assert.Equal(t, []string{"-DBASE=1", "-std=gnu++17", "-flibrary", "-Oz"}, flags)
}

func TestFlagsUnknownMode(t *testing.T) {
	c, err := Parse([]byte(profile))
	require.NoError(t, err)

	_, err = c.Flags(ScopeSketch, "turbo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turbo")
}

func TestFlagsModeIsCaseInsensitive(t *testing.T) {
	c, err := Parse([]byte(profile))
	require.NoError(t, err)

	flags, err := c.Flags(ScopeSketch, "QUICK")
	require.NoError(t, err)
	assert.Contains(t, flags, "-O0")
}

func TestLinkFlags(t *testing.T) {
	c, err := Parse([]byte(profile))
	require.NoError(t, err)

	flags, err := c.LinkFlags("quick")
	require.NoError(t, err)
	assert.Equal(t, []string{"-sQUICK_LINK"}, flags)
}

func TestIncludeFlags(t *testing.T) {
	c, err := Parse([]byte(profile))
	require.NoError(t, err)

	flags := c.IncludeFlags("/opt/fastled/src")
	assert.Equal(t, []string{
		"-Iinclude",
		"-I/opt/fastled/src",
		"-I" + filepath.Join("/opt/fastled/src", "platforms", "wasm", "compiler"),
	}, flags)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o644))

	c, err := Load(path, "")
	require.NoError(t, err)
	assert.Len(t, c.Modes, 2)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadFromLibraryTree(t *testing.T) {
	src := t.TempDir()
	profileDir := filepath.Join(src, "platforms", "wasm", "compile")
	require.NoError(t, os.MkdirAll(profileDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(profileDir, "build_flags.yaml"), []byte(profile), 0o644))

	c, err := Load("", src)
	require.NoError(t, err)
	assert.Len(t, c.Modes, 2)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	c, err := Load("", t.TempDir())
	require.NoError(t, err)

	for _, mode := range []string{"quick", "debug", "release"} {
		_, err := c.Flags(ScopeSketch, mode)
		assert.NoError(t, err)
	}
}
