package richtext

import (
	"fmt"
	"strconv"
)

// Command identifies a formatting operation applied at the selection.
type Command string

const (
	CmdBold        Command = "bold"
	CmdItalic      Command = "italic"
	CmdUnderline   Command = "underline"
	CmdHeading     Command = "heading"
	CmdBulletList  Command = "bulletList"
	CmdOrderedList Command = "orderedList"
	CmdBlockquote  Command = "blockquote"
	CmdLink        Command = "link"
)

// Selection is a rune-offset range over the buffer's plain text, with
// blocks and list items separated by single newlines. Start == End is a
// collapsed cursor.
type Selection struct {
	Start int
	End   int
}

// Buffer is the single continuous editing surface for one letter. All
// mutations go through it, every mutation fires the registered change
// observers exactly once, and the held document is always well formed
// (an empty letter is one empty paragraph).
//
// Buffer is not safe for concurrent use; the application mutates it from
// a single request/UI context, mirroring the one-writer discipline of
// the editing surface it models.
type Buffer struct {
	doc       *Doc
	sel       *Selection
	observers []func()
	revision  int64
}

// NewBuffer returns a buffer holding the canonical empty document.
func NewBuffer() *Buffer {
	return &Buffer{doc: EmptyDoc()}
}

// OnChange registers fn to run after every content-mutating operation,
// including Load. Observers run synchronously in registration order.
func (b *Buffer) OnChange(fn func()) {
	b.observers = append(b.observers, fn)
}

// Revision increments on every content mutation.
func (b *Buffer) Revision() int64 {
	return b.revision
}

func (b *Buffer) notify() {
	b.revision++
	for _, fn := range b.observers {
		fn()
	}
}

// Load replaces the entire document. Empty input loads the canonical
// empty document. Load is all-or-nothing: on a parse failure the prior
// content and selection are left untouched and the error is returned to
// the caller.
func (b *Buffer) Load(serialized string) error {
	doc, err := Parse(serialized)
	if err != nil {
		return err
	}
	b.doc = doc
	b.sel = nil
	b.notify()
	return nil
}

// Serialized returns the current content in the letter dialect. Loading
// the returned value back is observably a no-op.
func (b *Buffer) Serialized() string {
	return Serialize(b.doc)
}

// Document returns a copy of the document tree for structural walks
// (export). The buffer retains exclusive ownership of its own tree.
func (b *Buffer) Document() *Doc {
	return b.doc.Clone()
}

// PlainText returns the text the selection offsets index into.
func (b *Buffer) PlainText() string {
	return b.doc.PlainText()
}

// SetSelection sets the active selection, clamped to the document text.
func (b *Buffer) SetSelection(start, end int) {
	max := len([]rune(b.doc.PlainText()))
	start = clampOffset(start, max)
	end = clampOffset(end, max)
	if end < start {
		start, end = end, start
	}
	b.sel = &Selection{Start: start, End: end}
}

// Selection returns the active selection, if any.
func (b *Buffer) Selection() (Selection, bool) {
	if b.sel == nil {
		return Selection{}, false
	}
	return *b.sel, true
}

// ClearSelection removes the active selection and cursor.
func (b *Buffer) ClearSelection() {
	b.sel = nil
}

// ApplyFormatting applies cmd at the current selection. With no active
// selection or cursor it is a silent no-op. CmdHeading takes the level
// ("1" or "2") as its argument; CmdLink takes the target URL, where an
// empty URL removes the link.
func (b *Buffer) ApplyFormatting(cmd Command, args ...string) error {
	if b.sel == nil {
		return nil
	}
	sel := *b.sel

	switch cmd {
	case CmdBold, CmdItalic, CmdUnderline:
		if sel.Start == sel.End {
			return nil
		}
		b.toggleMark(cmd, sel)
	case CmdLink:
		if sel.Start == sel.End {
			return nil
		}
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		b.setLink(url, sel)
	case CmdHeading:
		if len(args) == 0 {
			return fmt.Errorf("heading command requires a level argument")
		}
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 1 || level > 6 {
			return fmt.Errorf("invalid heading level %q", args[0])
		}
		b.setBlockType(Heading, level, sel)
	case CmdBulletList:
		b.setListType(BulletList, sel)
	case CmdOrderedList:
		b.setListType(OrderedList, sel)
	case CmdBlockquote:
		b.setBlockType(Blockquote, 0, sel)
	default:
		return fmt.Errorf("unknown formatting command %q", cmd)
	}

	b.doc.Normalize()
	b.notify()
	return nil
}

// InsertText inserts text at the cursor, replacing the selected range
// first if the selection is not collapsed. Newlines split the containing
// block (or list item). Without an active selection it is a no-op.
func (b *Buffer) InsertText(text string) {
	if b.sel == nil {
		return
	}
	segs := segmentsOf(b.doc)
	sel := *b.sel
	if sel.Start != sel.End {
		segs = deleteRange(segs, sel.Start, sel.End)
	}
	segs, caret := insertAt(segs, sel.Start, text)
	b.doc = rebuild(segs)
	b.sel = &Selection{Start: caret, End: caret}
	b.notify()
}

// DeleteSelection removes the selected range. Collapsed or missing
// selections are a no-op.
func (b *Buffer) DeleteSelection() {
	if b.sel == nil || b.sel.Start == b.sel.End {
		return
	}
	segs := deleteRange(segmentsOf(b.doc), b.sel.Start, b.sel.End)
	b.doc = rebuild(segs)
	caret := b.sel.Start
	b.sel = &Selection{Start: caret, End: caret}
	b.notify()
}

// editSeg is one editable line of the document: a paragraph-like block
// or a single list item. listID groups items that belong to one list so
// splits and merges preserve list structure.
type editSeg struct {
	typ    BlockType
	level  int
	listID int
	spans  []Span
}

func (s *editSeg) textLen() int {
	n := 0
	for _, sp := range s.spans {
		n += len([]rune(sp.Text))
	}
	return n
}

func segmentsOf(d *Doc) []editSeg {
	var segs []editSeg
	for bi, blk := range d.Blocks {
		if blk.Type == BulletList || blk.Type == OrderedList {
			for _, item := range blk.Items {
				segs = append(segs, editSeg{typ: blk.Type, listID: bi, spans: cloneSpans(item)})
			}
			if len(blk.Items) == 0 {
				segs = append(segs, editSeg{typ: blk.Type, listID: bi})
			}
			continue
		}
		segs = append(segs, editSeg{typ: blk.Type, level: blk.Level, listID: -1, spans: cloneSpans(blk.Spans)})
	}
	return segs
}

func rebuild(segs []editSeg) *Doc {
	doc := &Doc{}
	for _, s := range segs {
		if s.typ == BulletList || s.typ == OrderedList {
			if n := len(doc.Blocks); n > 0 {
				last := &doc.Blocks[n-1]
				if last.Type == s.typ && last.Level == s.listID {
					last.Items = append(last.Items, s.spans)
					continue
				}
			}
			// Level temporarily carries the list group through rebuild.
			doc.Blocks = append(doc.Blocks, Block{Type: s.typ, Level: s.listID, Items: [][]Span{s.spans}})
			continue
		}
		doc.Blocks = append(doc.Blocks, Block{Type: s.typ, Level: s.level, Spans: s.spans})
	}
	for i := range doc.Blocks {
		if doc.Blocks[i].Type == BulletList || doc.Blocks[i].Type == OrderedList {
			doc.Blocks[i].Level = 0
		}
	}
	doc.Normalize()
	return doc
}

// segRange returns the indices of segments overlapped by the rune range
// [start, end] together with the local offsets inside the first and last
// overlapped segments. A collapsed range maps to the segment holding the
// cursor.
func segRange(segs []editSeg, start, end int) (first, last, localStart, localEnd int) {
	off := 0
	first, last = -1, -1
	for i := range segs {
		l := segs[i].textLen()
		segStart, segEnd := off, off+l
		if first == -1 && start <= segEnd {
			first = i
			localStart = start - segStart
			if localStart < 0 {
				localStart = 0
			}
		}
		if end <= segEnd && last == -1 {
			last = i
			localEnd = end - segStart
			if localEnd < 0 {
				localEnd = 0
			}
		}
		if last != -1 {
			break
		}
		off = segEnd + 1 // separator
	}
	if first == -1 {
		first, localStart = len(segs)-1, segs[len(segs)-1].textLen()
	}
	if last == -1 {
		last, localEnd = len(segs)-1, segs[len(segs)-1].textLen()
	}
	return first, last, localStart, localEnd
}

// splitSpans guarantees a span boundary at the local rune offset and
// returns the index of the first span at or after it.
func splitSpans(spans []Span, off int) ([]Span, int) {
	pos := 0
	for i, s := range spans {
		runes := []rune(s.Text)
		if off <= pos {
			return spans, i
		}
		if off < pos+len(runes) {
			head := Span{Text: string(runes[:off-pos]), Marks: s.Marks}
			tail := Span{Text: string(runes[off-pos:]), Marks: s.Marks}
			out := make([]Span, 0, len(spans)+1)
			out = append(out, spans[:i]...)
			out = append(out, head, tail)
			out = append(out, spans[i+1:]...)
			return out, i + 1
		}
		pos += len(runes)
	}
	return spans, len(spans)
}

func (b *Buffer) toggleMark(cmd Command, sel Selection) {
	segs := segmentsOf(b.doc)
	first, last, ls, le := segRange(segs, sel.Start, sel.End)

	// First pass: is the mark already applied to the entire range?
	allHave := true
	forEachCovered(segs, first, last, ls, le, func(s Span) Span {
		if s.Text != "" && !hasMark(s.Marks, cmd) {
			allHave = false
		}
		return s
	})

	forEachCovered(segs, first, last, ls, le, func(s Span) Span {
		setMark(&s.Marks, cmd, !allHave)
		return s
	})
	b.doc = rebuild(segs)
	b.sel = &sel
}

func (b *Buffer) setLink(url string, sel Selection) {
	segs := segmentsOf(b.doc)
	first, last, ls, le := segRange(segs, sel.Start, sel.End)
	forEachCovered(segs, first, last, ls, le, func(s Span) Span {
		s.Marks.Link = url
		return s
	})
	b.doc = rebuild(segs)
	b.sel = &sel
}

// forEachCovered splits span boundaries at the range edges and maps fn
// over every span inside the range.
func forEachCovered(segs []editSeg, first, last, ls, le int, fn func(Span) Span) {
	for i := first; i <= last; i++ {
		lo := 0
		hi := segs[i].textLen()
		if i == first {
			lo = ls
		}
		if i == last {
			hi = le
		}
		spans, startIdx := splitSpans(segs[i].spans, lo)
		spans, endIdx := splitSpans(spans, hiAfterSplit(spans, startIdx, hi-lo))
		for j := startIdx; j < endIdx; j++ {
			spans[j] = fn(spans[j])
		}
		segs[i].spans = spans
	}
}

// hiAfterSplit converts a length within the covered region back to a
// local offset after the leading split may have shifted span indices.
func hiAfterSplit(spans []Span, startIdx, length int) int {
	pos := 0
	for i := 0; i < startIdx; i++ {
		pos += len([]rune(spans[i].Text))
	}
	return pos + length
}

func (b *Buffer) setBlockType(t BlockType, level int, sel Selection) {
	segs := segmentsOf(b.doc)
	first, last, _, _ := segRange(segs, sel.Start, sel.End)

	allSet := true
	for i := first; i <= last; i++ {
		if segs[i].typ != t || segs[i].level != level {
			allSet = false
		}
	}
	for i := first; i <= last; i++ {
		if allSet {
			segs[i].typ, segs[i].level, segs[i].listID = Paragraph, 0, -1
			continue
		}
		segs[i].typ, segs[i].level, segs[i].listID = t, level, -1
	}
	b.doc = rebuild(segs)
	b.sel = &sel
}

func (b *Buffer) setListType(t BlockType, sel Selection) {
	segs := segmentsOf(b.doc)
	first, last, _, _ := segRange(segs, sel.Start, sel.End)

	allSet := true
	for i := first; i <= last; i++ {
		if segs[i].typ != t {
			allSet = false
		}
	}
	groupID := maxListID(segs) + 1
	for i := first; i <= last; i++ {
		if allSet {
			segs[i].typ, segs[i].level, segs[i].listID = Paragraph, 0, -1
			continue
		}
		segs[i].typ, segs[i].level, segs[i].listID = t, 0, groupID
	}
	b.doc = rebuild(segs)
	b.sel = &sel
}

func maxListID(segs []editSeg) int {
	max := 0
	for _, s := range segs {
		if s.listID > max {
			max = s.listID
		}
	}
	return max
}

func deleteRange(segs []editSeg, start, end int) []editSeg {
	first, last, ls, le := segRange(segs, start, end)
	if first == last {
		spans, i := splitSpans(segs[first].spans, ls)
		spans, j := splitSpans(spans, hiAfterSplit(spans, i, le-ls))
		segs[first].spans = append(spans[:i:i], spans[j:]...)
		return segs
	}

	head, i := splitSpans(segs[first].spans, ls)
	tail, j := splitSpans(segs[last].spans, le)
	merged := append(head[:i:i], tail[j:]...)
	segs[first].spans = merged

	out := append(segs[:first+1:first+1], segs[last+1:]...)
	return out
}

// insertAt splices text into the segments at the given rune offset and
// returns the resulting caret position. Each newline in text starts a
// new segment with the same block identity.
func insertAt(segs []editSeg, offset int, text string) ([]editSeg, int) {
	caret := offset
	for _, r := range text {
		si, _, local, _ := segRange(segs, caret, caret)
		if r == '\n' {
			seg := segs[si]
			spans, cut := splitSpans(seg.spans, local)
			headSpans := cloneSpans(spans[:cut])
			tailSpans := cloneSpans(spans[cut:])
			tail := editSeg{typ: seg.typ, level: seg.level, listID: seg.listID, spans: tailSpans}
			segs[si].spans = headSpans
			segs = append(segs[:si+1:si+1], append([]editSeg{tail}, segs[si+1:]...)...)
			caret++
			continue
		}
		spans, cut := splitSpans(segs[si].spans, local)
		marks := Marks{}
		if cut > 0 {
			marks = spans[cut-1].Marks
		}
		ins := Span{Text: string(r), Marks: marks}
		segs[si].spans = append(spans[:cut:cut], append([]Span{ins}, spans[cut:]...)...)
		caret++
	}
	return segs, caret
}

func hasMark(m Marks, cmd Command) bool {
	switch cmd {
	case CmdBold:
		return m.Bold
	case CmdItalic:
		return m.Italic
	case CmdUnderline:
		return m.Underline
	}
	return false
}

func setMark(m *Marks, cmd Command, on bool) {
	switch cmd {
	case CmdBold:
		m.Bold = on
	case CmdItalic:
		m.Italic = on
	case CmdUnderline:
		m.Underline = on
	}
}

func clampOffset(off, max int) int {
	if off < 0 {
		return 0
	}
	if off > max {
		return max
	}
	return off
}
