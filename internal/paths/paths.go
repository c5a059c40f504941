package paths

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Environment variables that override the default toolchain layout. All of
// them are optional; unset means the default below.
const (
	EnvLibraryRoot = "ENV_FASTLED_ROOT"
	EnvEmsdkRoot   = "ENV_EMSDK_ROOT"
	EnvSketchRoot  = "ENV_SKETCH_ROOT"
	EnvBuildRoot   = "ENV_BUILD_ROOT"
)

func orDefault(env, def string) string {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		return v
	}
	return def
}

func home() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return h
}

// LibraryRoot is where the upstream LED library gets installed.
func LibraryRoot() string {
	return orDefault(EnvLibraryRoot, filepath.Join(home(), ".sketchhost", "fastled"))
}

// LibrarySrc is the source tree inside the library root.
func LibrarySrc() string {
	return filepath.Join(LibraryRoot(), "src")
}

// EmsdkRoot is where the wasm toolchain lives.
func EmsdkRoot() string {
	return orDefault(EnvEmsdkRoot, filepath.Join(home(), ".sketchhost", "emsdk"))
}

// SketchRoot is the sketch source directory, relative to the working dir
// unless overridden.
func SketchRoot() string {
	return orDefault(EnvSketchRoot, "src")
}

// BuildRoot is where synced sources and build artifacts end up.
func BuildRoot() string {
	return orDefault(EnvBuildRoot, "build")
}

// MissingEnv reports which of the override variables are unset. Purely
// informational; everything has a default.
func MissingEnv() []string {
	var missing []string
	for _, env := range []string{EnvLibraryRoot, EnvEmsdkRoot, EnvSketchRoot, EnvBuildRoot} {
		if _, ok := os.LookupEnv(env); !ok {
			missing = append(missing, env)
		}
	}
	return missing
}

// Printenv dumps the process environment sorted, framed the same way the
// container debug output always has been.
func Printenv(w io.Writer) {
	fmt.Fprintln(w, "=== Container Environment Variables ===")

	env := os.Environ()
	sort.Strings(env)
	for _, kv := range env {
		fmt.Fprintln(w, kv)
	}

	fmt.Fprintln(w, "=== End Environment Variables ===")
}
