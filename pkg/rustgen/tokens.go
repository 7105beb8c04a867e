// Package rustgen lowers hir.HirSpec directly into Rust source text, the
// one backend emitter this compiler ships. Every renderer takes HIR
// values (*hir.Record, hir.Operation, hir.Ty, ...) and returns either a
// *Tokens fragment or a string; there is no intermediate backend-neutral
// tree; a second backend would be a sibling package doing the same.
package rustgen

import (
	"fmt"
	"strings"
)

// Tokens is a growable Rust source buffer. The Rust backend doesn't need
// a real proc-macro2 token tree to stay correct: every fragment it emits
// is rendered straight to text and the whole file is normalized by an
// external rustfmt pass afterward, so a string builder is enough.
type Tokens struct {
	b strings.Builder
}

// NewTokens returns an empty Tokens buffer.
func NewTokens() *Tokens { return &Tokens{} }

// Push appends a line, followed by a newline.
func (t *Tokens) Push(line string) *Tokens {
	t.b.WriteString(line)
	t.b.WriteByte('\n')
	return t
}

// Pushf appends a formatted line, followed by a newline.
func (t *Tokens) Pushf(format string, args ...any) *Tokens {
	return t.Push(fmt.Sprintf(format, args...))
}

// Raw appends s with no trailing newline.
func (t *Tokens) Raw(s string) *Tokens {
	t.b.WriteString(s)
	return t
}

// Blank appends an empty line.
func (t *Tokens) Blank() *Tokens { return t.Push("") }

// String returns the accumulated source text.
func (t *Tokens) String() string { return t.b.String() }
