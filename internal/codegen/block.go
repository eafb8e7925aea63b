// Package codegen provides an indentation-aware block tree for assembling
// generated source text. It knows nothing about the schema model; callers
// build a File out of lines, blank runs, and nested blocks, then render it
// once. Rendering is strictly order-preserving.
package codegen

import (
	"fmt"
	"strings"
)

// indentUnit is prepended once per depth level.
const indentUnit = "  "

// entry is a single renderable item owned by a File or Block.
type entry interface {
	render(sb *strings.Builder, depth int)
}

// lineEntry is a literal line rendered at the owner's entry depth.
type lineEntry string

func (l lineEntry) render(sb *strings.Builder, depth int) {
	writeIndent(sb, depth)
	sb.WriteString(string(l))
	sb.WriteByte('\n')
}

// blankEntry is a run of N truly empty lines (no indentation).
type blankEntry int

func (b blankEntry) render(sb *strings.Builder, _ int) {
	for i := 0; i < int(b); i++ {
		sb.WriteByte('\n')
	}
}

// Block is a delimited region of output. It owns its indentation depth, an
// optional header line, and an ordered list of entries. The header renders at
// the block's depth followed by an opening brace; entries render at depth+1;
// the closing brace renders back at the block's depth. An empty block still
// renders its open and close lines.
type Block struct {
	depth   int
	header  string
	entries []entry
}

// NewBlock creates a block at the given depth. An empty header renders a bare
// opening brace.
func NewBlock(depth int, header string) *Block {
	return &Block{depth: depth, header: header}
}

// Line appends a literal line.
func (b *Block) Line(s string) *Block {
	b.entries = append(b.entries, lineEntry(s))
	return b
}

// Linef appends a formatted line.
func (b *Block) Linef(format string, args ...interface{}) *Block {
	return b.Line(fmt.Sprintf(format, args...))
}

// LineIf appends the line only when cond holds.
func (b *Block) LineIf(cond bool, s string) *Block {
	if cond {
		b.Line(s)
	}
	return b
}

// BlankLines appends a run of n empty lines.
func (b *Block) BlankLines(n int) *Block {
	if n > 0 {
		b.entries = append(b.entries, blankEntry(n))
	}
	return b
}

// Add appends a nested block. The child keeps the depth it was created with.
func (b *Block) Add(child *Block) *Block {
	b.entries = append(b.entries, child)
	return b
}

// AddAll appends a sequence of nested blocks in order, each preceded by one
// blank line.
func (b *Block) AddAll(children []*Block) *Block {
	for _, child := range children {
		b.BlankLines(1)
		b.Add(child)
	}
	return b
}

func (b *Block) render(sb *strings.Builder, _ int) {
	writeIndent(sb, b.depth)
	if b.header != "" {
		sb.WriteString(b.header)
		sb.WriteString(" {\n")
	} else {
		sb.WriteString("{\n")
	}
	for _, e := range b.entries {
		e.render(sb, b.depth+1)
	}
	writeIndent(sb, b.depth)
	sb.WriteString("}\n")
}

// File is the root of a rendered artifact: an ordered sequence of top-level
// lines, blank runs, and blocks.
type File struct {
	entries []entry
}

// NewFile creates an empty file.
func NewFile() *File { return &File{} }

// Line appends a top-level line.
func (f *File) Line(s string) *File {
	f.entries = append(f.entries, lineEntry(s))
	return f
}

// Linef appends a formatted top-level line.
func (f *File) Linef(format string, args ...interface{}) *File {
	return f.Line(fmt.Sprintf(format, args...))
}

// LineIf appends the line only when cond holds.
func (f *File) LineIf(cond bool, s string) *File {
	if cond {
		f.Line(s)
	}
	return f
}

// BlankLines appends a run of n empty lines.
func (f *File) BlankLines(n int) *File {
	if n > 0 {
		f.entries = append(f.entries, blankEntry(n))
	}
	return f
}

// Add appends a top-level block.
func (f *File) Add(b *Block) *File {
	f.entries = append(f.entries, b)
	return f
}

// Render walks the tree depth-first and returns the final text. Identical
// trees always render to identical text.
func (f *File) Render() string {
	var sb strings.Builder
	for _, e := range f.entries {
		e.render(&sb, 0)
	}
	return sb.String()
}

func writeIndent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indentUnit)
	}
}
