package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_LoadEmptyIsCanonicalDocument(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, "<p></p>", b.Serialized())

	assert.NoError(t, b.Load(""))
	assert.Equal(t, "<p></p>", b.Serialized())
	assert.NotEmpty(t, b.Serialized(), "empty letter is never the empty string")
}

func TestBuffer_LoadRoundTrip(t *testing.T) {
	b := NewBuffer()
	content := `<h1>Notice of Claim</h1><p>Dear <strong>Mr. Ortiz</strong>,</p><ul><li>Return the deposit</li></ul>`

	assert.NoError(t, b.Load(content))
	first := b.Serialized()

	// Loading the buffer's own output is observably a no-op.
	assert.NoError(t, b.Load(first))
	assert.Equal(t, first, b.Serialized())
}

func TestBuffer_LoadIsAllOrNothing(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>prior content</p>"))
	err := b.Load("<p>good</p><div>bad</div>")

	assert.ErrorIs(t, err, ErrUnsupportedMarkup)
	assert.Equal(t, "<p>prior content</p>", b.Serialized(), "failed load leaves prior content untouched")
}

func TestBuffer_OnChange(t *testing.T) {
	b := NewBuffer()
	fired := 0
	b.OnChange(func() { fired++ })

	assert.NoError(t, b.Load("<p>hello</p>"))
	assert.Equal(t, 1, fired, "load fires the change observers")

	b.SetSelection(0, 5)
	assert.NoError(t, b.ApplyFormatting(CmdBold))
	assert.Equal(t, 2, fired, "one notification per logical mutation")

	b.SetSelection(2, 2)
	b.InsertText("y")
	assert.Equal(t, 3, fired)

	// A failed load mutates nothing and must not notify.
	assert.Error(t, b.Load("<table></table>"))
	assert.Equal(t, 3, fired)

	rev := b.Revision()
	b.ClearSelection()
	assert.NoError(t, b.ApplyFormatting(CmdBold))
	assert.Equal(t, 3, fired, "no-op formatting does not notify")
	assert.Equal(t, rev, b.Revision())
}

func TestBuffer_ToggleInlineMarks(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Hello world</p>"))

	b.SetSelection(0, 5)
	assert.NoError(t, b.ApplyFormatting(CmdBold))
	assert.Equal(t, "<p><strong>Hello</strong> world</p>", b.Serialized())

	// Toggling over an already-bold range removes the mark.
	assert.NoError(t, b.ApplyFormatting(CmdBold))
	assert.Equal(t, "<p>Hello world</p>", b.Serialized())
}

func TestBuffer_MixedRangeGainsMark(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p><strong>Hel</strong>lo</p>"))

	// Partly bold selection: toggling bolds the remainder.
	b.SetSelection(0, 5)
	assert.NoError(t, b.ApplyFormatting(CmdBold))
	assert.Equal(t, "<p><strong>Hello</strong></p>", b.Serialized())
}

func TestBuffer_MarksAcrossBlocks(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>one</p><p>two</p>"))

	// "one\ntwo": select from inside the first block into the second.
	b.SetSelection(1, 6)
	assert.NoError(t, b.ApplyFormatting(CmdItalic))
	assert.Equal(t, "<p>o<em>ne</em></p><p><em>tw</em>o</p>", b.Serialized())
}

func TestBuffer_HeadingCommand(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Title</p><p>Body</p>"))

	b.SetSelection(0, 0)
	assert.NoError(t, b.ApplyFormatting(CmdHeading, "1"))
	assert.Equal(t, "<h1>Title</h1><p>Body</p>", b.Serialized())

	// Re-applying the same heading reverts to a paragraph.
	assert.NoError(t, b.ApplyFormatting(CmdHeading, "1"))
	assert.Equal(t, "<p>Title</p><p>Body</p>", b.Serialized())

	assert.NoError(t, b.ApplyFormatting(CmdHeading, "2"))
	assert.Equal(t, "<h2>Title</h2><p>Body</p>", b.Serialized())

	assert.Error(t, b.ApplyFormatting(CmdHeading, "7"))
	assert.Error(t, b.ApplyFormatting(CmdHeading))
}

func TestBuffer_ListCommands(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>First</p><p>Second</p>"))

	// "First\nSecond": select across both paragraphs.
	b.SetSelection(0, 12)
	assert.NoError(t, b.ApplyFormatting(CmdBulletList))
	assert.Equal(t, "<ul><li>First</li><li>Second</li></ul>", b.Serialized())

	assert.NoError(t, b.ApplyFormatting(CmdOrderedList))
	assert.Equal(t, "<ol><li>First</li><li>Second</li></ol>", b.Serialized())

	// Toggling the active list type unwraps back to paragraphs.
	assert.NoError(t, b.ApplyFormatting(CmdOrderedList))
	assert.Equal(t, "<p>First</p><p>Second</p>", b.Serialized())
}

func TestBuffer_BlockquoteCommand(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Quoted passage</p>"))

	b.SetSelection(3, 3)
	assert.NoError(t, b.ApplyFormatting(CmdBlockquote))
	assert.Equal(t, "<blockquote>Quoted passage</blockquote>", b.Serialized())

	assert.NoError(t, b.ApplyFormatting(CmdBlockquote))
	assert.Equal(t, "<p>Quoted passage</p>", b.Serialized())
}

func TestBuffer_LinkCommand(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Hello world</p>"))

	b.SetSelection(6, 11)
	assert.NoError(t, b.ApplyFormatting(CmdLink, "https://example.com"))
	assert.Equal(t, `<p>Hello <a href="https://example.com">world</a></p>`, b.Serialized())

	// An empty URL removes the link.
	assert.NoError(t, b.ApplyFormatting(CmdLink, ""))
	assert.Equal(t, "<p>Hello world</p>", b.Serialized())
}

func TestBuffer_NoSelectionIsNoOp(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>text</p>"))
	before := b.Serialized()

	assert.NoError(t, b.ApplyFormatting(CmdBold))
	assert.NoError(t, b.ApplyFormatting(CmdBulletList))
	assert.Equal(t, before, b.Serialized())
}

func TestBuffer_InsertText(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Hello</p>"))

	b.SetSelection(5, 5)
	b.InsertText(" there")
	assert.Equal(t, "<p>Hello there</p>", b.Serialized())

	sel, ok := b.Selection()
	assert.True(t, ok)
	assert.Equal(t, Selection{Start: 11, End: 11}, sel)
}

func TestBuffer_InsertTextReplacesSelection(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Hello world</p>"))

	b.SetSelection(6, 11)
	b.InsertText("counsel")
	assert.Equal(t, "<p>Hello counsel</p>", b.Serialized())
}

func TestBuffer_InsertNewlineSplitsBlock(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>HelloWorld</p>"))

	b.SetSelection(5, 5)
	b.InsertText("\n")
	assert.Equal(t, "<p>Hello</p><p>World</p>", b.Serialized())
}

func TestBuffer_InsertNewlineSplitsListItem(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<ul><li>onetwo</li></ul>"))

	b.SetSelection(3, 3)
	b.InsertText("\n")
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>", b.Serialized())
}

func TestBuffer_InsertInheritsMarks(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p><strong>bold</strong></p>"))

	b.SetSelection(4, 4)
	b.InsertText("er")
	assert.Equal(t, "<p><strong>bolder</strong></p>", b.Serialized())
}

func TestBuffer_DeleteSelectionAcrossBlocks(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>Hello</p><p>World</p>"))

	// "Hello\nWorld": delete "lo\nWor".
	b.SetSelection(3, 9)
	b.DeleteSelection()
	assert.Equal(t, "<p>Helld</p>", b.Serialized())
}

func TestBuffer_DeleteEverythingLeavesEmptyParagraph(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>all of it</p>"))

	b.SetSelection(0, 9)
	b.DeleteSelection()
	assert.Equal(t, "<p></p>", b.Serialized())
}

func TestBuffer_SelectionClamped(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>abc</p>"))

	b.SetSelection(-5, 99)
	sel, ok := b.Selection()
	assert.True(t, ok)
	assert.Equal(t, Selection{Start: 0, End: 3}, sel)
}

func TestBuffer_DocumentIsACopy(t *testing.T) {
	b := NewBuffer()
	assert.NoError(t, b.Load("<p>original</p>"))

	doc := b.Document()
	doc.Blocks[0].Spans[0].Text = "mutated"
	assert.Equal(t, "<p>original</p>", b.Serialized())
}
