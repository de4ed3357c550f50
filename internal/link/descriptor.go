// Package link builds and emits the link descriptor: the ordered
// link-search-path and link-library directives handed to the consuming build
// system. Order derives only from manifest declaration order.
package link

import (
	"fmt"
	"io"
	"path/filepath"

	"git.home.luguber.info/inful/ffbuild/internal/config"
)

// Kind distinguishes directive types.
type Kind string

const (
	KindSearch  Kind = "rustc-link-search"
	KindLib     Kind = "rustc-link-lib"
	KindRerunIf Kind = "rerun-if-changed"
)

// Directive is one instruction to the consuming build system.
type Directive struct {
	Kind  Kind
	Value string
}

// String renders the directive in key=value form without the channel prefix.
func (d Directive) String() string {
	return fmt.Sprintf("%s=%s", d.Kind, d.Value)
}

// SearchNative declares a native link-search directory.
func SearchNative(dir string) Directive {
	return Directive{Kind: KindSearch, Value: "native=" + dir}
}

// StaticLib declares a static library to link.
func StaticLib(name string) Directive {
	return Directive{Kind: KindLib, Value: "static=" + name}
}

// RerunIfChanged ties a rerun of the pipeline to a file's modification.
func RerunIfChanged(path string) Directive {
	return Directive{Kind: KindRerunIf, Value: path}
}

// Descriptor returns the staged root as a search path, then each declared
// subdirectory under it, then each declared static library.
func Descriptor(root string, m *config.Manifest) []Directive {
	out := make([]Directive, 0, 1+len(m.SearchPaths)+len(m.StaticLibs))
	out = append(out, SearchNative(root))
	for _, p := range m.SearchPaths {
		out = append(out, SearchNative(filepath.Join(root, p)))
	}
	for _, lib := range m.StaticLibs {
		out = append(out, StaticLib(lib.Name))
	}
	return out
}

// Emitter writes directives to the consuming build system's channel.
type Emitter struct {
	w      io.Writer
	prefix string
	// emitted keeps everything written, in order, for the build report.
	emitted []Directive
}

// DefaultPrefix is the directive channel prefix understood by cargo.
const DefaultPrefix = "cargo:"

// NewEmitter returns an Emitter writing prefixed lines to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, prefix: DefaultPrefix}
}

// Emit writes each directive on its own line.
func (e *Emitter) Emit(ds ...Directive) error {
	for _, d := range ds {
		if _, err := fmt.Fprintf(e.w, "%s%s\n", e.prefix, d); err != nil {
			return fmt.Errorf("emit directive %s: %w", d, err)
		}
		e.emitted = append(e.emitted, d)
	}
	return nil
}

// Emitted returns a copy of every directive written so far.
func (e *Emitter) Emitted() []Directive {
	out := make([]Directive, len(e.emitted))
	copy(out, e.emitted)
	return out
}
