package buildflags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scope selects which compilation unit the flags are for.
type Scope string

const (
	ScopeSketch  Scope = "sketch"
	ScopeLibrary Scope = "library"
)

type scopeFlags struct {
	Defines       []string `yaml:"defines"`
	CompilerFlags []string `yaml:"compilerFlags"`
}

type modeFlags struct {
	Flags     []string `yaml:"flags"`
	LinkFlags []string `yaml:"linkFlags"`
}

// Config is the centralized flag profile shared by sketch and library
// compilation: a base section everybody gets, per-scope extras, and named
// build modes on top.
type Config struct {
	Base    scopeFlags           `yaml:"base"`
	Sketch  scopeFlags           `yaml:"sketch"`
	Library scopeFlags           `yaml:"library"`
	Include []string             `yaml:"includeFlags"`
	Modes   map[string]modeFlags `yaml:"modes"`
}

func Parse(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if len(c.Modes) == 0 {
		return nil, fmt.Errorf("flag profile declares no build modes")
	}

	return c, nil
}

// Load resolves the flag profile. An explicit path wins; otherwise the
// profile shipped in the library source tree is used, and when no library is
// installed the built-in defaults apply.
func Load(path, librarySrc string) (*Config, error) {
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("flag profile not found: %w", err)
		}
		return Parse(content)
	}

	treeProfile := filepath.Join(librarySrc, "platforms", "wasm", "compile", "build_flags.yaml")
	if content, err := os.ReadFile(treeProfile); err == nil {
		log.Debugf("Using flag profile from library source: %s", treeProfile)
		return Parse(content)
	}

	log.Debug("Using built-in flag profile.")
	return Default(), nil
}

// Flags returns base + scope + mode compile flags, in that order. Defines
// come before compiler flags within each section.
func (c *Config) Flags(scope Scope, mode string) ([]string, error) {
	m, err := c.mode(mode)
	if err != nil {
		return nil, err
	}

	var s scopeFlags
	switch scope {
	case ScopeSketch:
		s = c.Sketch
	case ScopeLibrary:
		s = c.Library
	default:
		return nil, fmt.Errorf("unknown scope: %s", scope)
	}

	flags := []string{}
	flags = append(flags, c.Base.Defines...)
	flags = append(flags, c.Base.CompilerFlags...)
	flags = append(flags, s.Defines...)
	flags = append(flags, s.CompilerFlags...)
	flags = append(flags, m.Flags...)

	return flags, nil
}

// LinkFlags returns the mode-specific linker flags.
func (c *Config) LinkFlags(mode string) ([]string, error) {
	m, err := c.mode(mode)
	if err != nil {
		return nil, err
	}
	return append([]string{}, m.LinkFlags...), nil
}

// IncludeFlags returns the include paths with the library source tree
// appended.
func (c *Config) IncludeFlags(librarySrc string) []string {
	flags := append([]string{}, c.Include...)
	flags = append(flags,
		"-I"+librarySrc,
		"-I"+filepath.Join(librarySrc, "platforms", "wasm", "compiler"),
	)
	return flags
}

func (c *Config) mode(mode string) (modeFlags, error) {
	m, ok := c.Modes[strings.ToLower(mode)]
	if !ok {
		return modeFlags{}, fmt.Errorf("unknown build mode: %s", mode)
	}
	return m, nil
}

// Default is the packaged fallback profile used when no library source is
// installed yet.
func Default() *Config {
	return &Config{
		Base: scopeFlags{
			Defines: []string{
				"-DFASTLED_ENGINE_EVENTS_MAX_LISTENERS=50",
				"-DFASTLED_FORCE_NAMESPACE=1",
				"-DDISABLE_EXCEPTION_CATCHING=1",
			},
			CompilerFlags: []string{
				"-std=gnu++17",
				"-fno-exceptions",
				"-fno-rtti",
			},
		},
		Sketch: scopeFlags{
			Defines:       []string{"-DSKETCH_COMPILE=1"},
			CompilerFlags: []string{"-Wnon-c-typedef-for-linkage"},
		},
		Library: scopeFlags{
			Defines: []string{"-DFASTLED_WASM_USE_CCALL"},
		},
		Include: []string{"-I."},
		Modes: map[string]modeFlags{
			"quick": {
				Flags:     []string{"-O0", "-fno-inline-functions"},
				LinkFlags: []string{"-sERROR_ON_WASM_CHANGES_AFTER_LINK"},
			},
			"debug": {
				Flags:     []string{"-g3", "-O0", "-fsanitize=address"},
				LinkFlags: []string{"-gseparate-dwarf", "-fsanitize=address"},
			},
			"release": {
				Flags:     []string{"-Oz"},
				LinkFlags: []string{"-Oz"},
			},
		},
	}
}
