// Package richtext models a legal letter as a single continuous rich-text
// document: an ordered list of blocks (paragraphs, headings, lists,
// blockquotes) whose text carries inline marks (bold, italic, underline,
// links).
//
// The package owns the markup dialect the rest of the application stores
// and exchanges: a small HTML subset. Content is parsed all-or-nothing; a
// document that loaded successfully always serializes back to observably
// equivalent markup.
package richtext

import "strings"

// BlockType identifies the structural role of a block.
type BlockType int

const (
	Paragraph BlockType = iota
	Heading
	BulletList
	OrderedList
	Blockquote
)

// Marks are the inline styles applied to a span of text. Link is the
// target URL when the span is part of a hyperlink, empty otherwise.
type Marks struct {
	Bold      bool
	Italic    bool
	Underline bool
	Link      string
}

// Span is a run of text with uniform marks.
type Span struct {
	Text  string
	Marks Marks
}

// Block is one structural element of the document. Paragraphs, headings
// and blockquotes carry their text in Spans; lists carry one span slice
// per item in Items. Level is the heading level (1-6) and is zero for
// every other block type.
type Block struct {
	Type  BlockType
	Level int
	Spans []Span
	Items [][]Span
}

// Doc is the parsed document tree. A well-formed Doc always has at least
// one block; the canonical empty document is a single empty paragraph.
type Doc struct {
	Blocks []Block
}

// EmptyDoc returns the canonical empty document: one paragraph with no
// text. An empty document is never represented by nil or zero blocks so
// the editing surface always has a measurable height and a stable cursor
// position.
func EmptyDoc() *Doc {
	return &Doc{Blocks: []Block{{Type: Paragraph}}}
}

// IsEmpty reports whether the document is the canonical empty document.
func (d *Doc) IsEmpty() bool {
	return len(d.Blocks) == 1 &&
		d.Blocks[0].Type == Paragraph &&
		spansText(d.Blocks[0].Spans) == ""
}

// PlainText returns the document text with blocks and list items joined
// by newlines. Offsets into this string are the coordinate system used by
// Buffer selections.
func (d *Doc) PlainText() string {
	var parts []string
	for _, b := range d.Blocks {
		if b.Type == BulletList || b.Type == OrderedList {
			for _, item := range b.Items {
				parts = append(parts, spansText(item))
			}
			continue
		}
		parts = append(parts, spansText(b.Spans))
	}
	return strings.Join(parts, "\n")
}

// Clone returns a deep copy of the document. Load keeps a copy of the
// prior document so a failed parse leaves the buffer untouched.
func (d *Doc) Clone() *Doc {
	out := &Doc{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		nb := Block{Type: b.Type, Level: b.Level}
		nb.Spans = cloneSpans(b.Spans)
		if b.Items != nil {
			nb.Items = make([][]Span, len(b.Items))
			for j, item := range b.Items {
				nb.Items[j] = cloneSpans(item)
			}
		}
		out.Blocks[i] = nb
	}
	return out
}

// Visitor receives the document structure in order. It is the contract
// export collaborators build on: every structural element the dialect can
// ever contain maps to exactly one callback.
type Visitor interface {
	BlockStart(b *Block)
	ListItemStart(b *Block, index int)
	Text(s Span)
	ListItemEnd(b *Block, index int)
	BlockEnd(b *Block)
}

// Walk traverses the document depth-first, invoking v for each element.
func (d *Doc) Walk(v Visitor) {
	for i := range d.Blocks {
		b := &d.Blocks[i]
		v.BlockStart(b)
		if b.Type == BulletList || b.Type == OrderedList {
			for j, item := range b.Items {
				v.ListItemStart(b, j)
				for _, s := range item {
					v.Text(s)
				}
				v.ListItemEnd(b, j)
			}
		} else {
			for _, s := range b.Spans {
				v.Text(s)
			}
		}
		v.BlockEnd(b)
	}
}

func spansText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func cloneSpans(spans []Span) []Span {
	if spans == nil {
		return nil
	}
	out := make([]Span, len(spans))
	copy(out, spans)
	return out
}

// normalizeSpans merges adjacent spans with identical marks and drops
// empty spans, so structurally different span lists with the same visible
// result compare and serialize identically.
func normalizeSpans(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == s.Marks {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// Normalize canonicalizes the document in place: spans are merged, empty
// list blocks collapse to paragraphs, and an empty block list becomes the
// canonical empty document.
func (d *Doc) Normalize() {
	for i := range d.Blocks {
		b := &d.Blocks[i]
		if b.Type == BulletList || b.Type == OrderedList {
			items := b.Items[:0]
			for _, item := range b.Items {
				items = append(items, normalizeSpans(item))
			}
			b.Items = items
			if len(b.Items) == 0 {
				b.Type = Paragraph
				b.Items = nil
			}
			continue
		}
		b.Spans = normalizeSpans(b.Spans)
	}
	if len(d.Blocks) == 0 {
		d.Blocks = []Block{{Type: Paragraph}}
	}
}
