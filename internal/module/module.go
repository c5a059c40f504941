package module

import "fmt"

// Wire names of the keep-alive exports. The host loader resolves entry
// points by these unmangled names, so they must never change.
const (
	SymbolSetup        = "extern_setup"
	SymbolLoop         = "extern_loop"
	SymbolDeclareFiles = "fastled_declare_files"
)

// Setup is the one-time initialization hook. The stub module has nothing to
// initialize and always reports success.
func Setup() int32 {
	return 0
}

// Loop is the per-frame hook. Always succeeds.
func Loop() int32 {
	return 0
}

// DeclareFiles receives the files.json manifest text from the host before
// setup. The stub module has no filesystem to populate and ignores it.
func DeclareFiles(jsonText string) {
}

// Table maps wire symbol names to entry points. It stands in for the export
// section of a compiled module image.
type Table map[string]any

// Exports returns the export table of the stub module.
func Exports() Table {
	return Table{
		SymbolSetup:        Setup,
		SymbolLoop:         Loop,
		SymbolDeclareFiles: DeclareFiles,
	}
}

// Hooks is a resolved set of lifecycle entry points ready for the runner.
type Hooks struct {
	Setup        func() int32
	Loop         func() int32
	DeclareFiles func(string)
}

// Resolve looks up the lifecycle hooks in an export table. A module missing
// one of its keep-alive exports, or exporting it with the wrong shape,
// cannot be hosted.
func Resolve(t Table) (Hooks, error) {
	h := Hooks{}

	setup, ok := t[SymbolSetup].(func() int32)
	if !ok {
		return Hooks{}, fmt.Errorf("module does not export %q", SymbolSetup)
	}
	h.Setup = setup

	loop, ok := t[SymbolLoop].(func() int32)
	if !ok {
		return Hooks{}, fmt.Errorf("module does not export %q", SymbolLoop)
	}
	h.Loop = loop

	declare, ok := t[SymbolDeclareFiles].(func(string))
	if !ok {
		return Hooks{}, fmt.Errorf("module does not export %q", SymbolDeclareFiles)
	}
	h.DeclareFiles = declare

	return h, nil
}
