package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileRender(t *testing.T) {
	f := NewFile()
	f.Line("// header")
	f.BlankLines(1)
	f.Add(NewBlock(0, "mod outer").
		Line("first").
		BlankLines(1).
		Add(NewBlock(1, "fn inner").
			Line("body")))

	expected := "// header\n" +
		"\n" +
		"mod outer {\n" +
		"  first\n" +
		"\n" +
		"  fn inner {\n" +
		"    body\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, expected, f.Render())
}

func TestEmptyBlockRendersOpenAndClose(t *testing.T) {
	f := NewFile()
	f.Add(NewBlock(0, "pub struct Marker"))

	assert.Equal(t, "pub struct Marker {\n}\n", f.Render())
}

func TestHeaderlessBlock(t *testing.T) {
	f := NewFile()
	f.Add(NewBlock(0, "").Line("x"))

	assert.Equal(t, "{\n  x\n}\n", f.Render())
}

func TestLineIf(t *testing.T) {
	b := NewBlock(0, "b").
		LineIf(false, "skipped").
		LineIf(true, "kept")
	f := NewFile().Add(b)

	out := f.Render()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "  kept\n")
}

func TestBlankRun(t *testing.T) {
	f := NewFile()
	f.Line("a")
	f.BlankLines(3)
	f.Line("b")

	assert.Equal(t, "a\n\n\n\nb\n", f.Render())
}

func TestAddAllSeparatesBlocks(t *testing.T) {
	parent := NewBlock(0, "parent")
	parent.AddAll([]*Block{
		NewBlock(1, "one"),
		NewBlock(1, "two"),
	})
	out := NewFile().Add(parent).Render()

	expected := "parent {\n" +
		"\n" +
		"  one {\n" +
		"  }\n" +
		"\n" +
		"  two {\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, expected, out)
}

func TestBalancedDelimiters(t *testing.T) {
	f := NewFile()
	f.Add(NewBlock(0, "a").
		Add(NewBlock(1, "b").
			Add(NewBlock(2, "c").Line("leaf"))).
		Add(NewBlock(1, "d")))

	out := f.Render()
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
}

func TestRenderIsDeterministic(t *testing.T) {
	f := NewFile()
	f.Line("top")
	f.Add(NewBlock(0, "block").Line("entry").BlankLines(2))

	assert.Equal(t, f.Render(), f.Render())
}
