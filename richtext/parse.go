package richtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnsupportedMarkup is wrapped by Parse when the input contains
// elements outside the letter dialect. Callers use errors.Is to
// distinguish a rejected load from other failures.
var ErrUnsupportedMarkup = errors.New("unsupported markup")

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// policy is the sanitizer for externally sourced letter HTML. It admits
// exactly the dialect vocabulary and safe link targets, nothing else.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote",
		"strong", "b", "em", "i", "u")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}()

// Sanitize strips everything outside the letter dialect from untrusted
// HTML. It is applied at service boundaries (AI output, saved drafts)
// before the strict Parse; Parse itself never drops content silently.
func Sanitize(serialized string) string {
	return policy.Sanitize(serialized)
}

// Parse converts serialized letter markup into a document tree. Empty or
// whitespace-only input yields the canonical empty document. Any element
// outside the dialect fails the whole parse; no fragment is dropped.
func Parse(serialized string) (*Doc, error) {
	if strings.TrimSpace(serialized) == "" {
		return EmptyDoc(), nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(serialized), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse letter markup: %w", err)
	}

	doc := &Doc{}
	for _, n := range nodes {
		if err := parseBlockNode(doc, n); err != nil {
			return nil, err
		}
	}
	doc.Normalize()
	return doc, nil
}

func parseBlockNode(doc *Doc, n *html.Node) error {
	switch n.Type {
	case html.TextNode:
		// Bare text between blocks is parseable: it becomes a paragraph.
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		doc.Blocks = append(doc.Blocks, Block{
			Type:  Paragraph,
			Spans: []Span{{Text: n.Data}},
		})
		return nil
	case html.CommentNode:
		return nil
	case html.ElementNode:
		// handled below
	default:
		return nil
	}

	name := n.Data
	switch {
	case name == "p":
		spans, err := parseInline(n, Marks{})
		if err != nil {
			return err
		}
		doc.Blocks = append(doc.Blocks, Block{Type: Paragraph, Spans: spans})
	case headingLevels[name] != 0:
		spans, err := parseInline(n, Marks{})
		if err != nil {
			return err
		}
		doc.Blocks = append(doc.Blocks, Block{Type: Heading, Level: headingLevels[name], Spans: spans})
	case name == "ul" || name == "ol":
		bt := BulletList
		if name == "ol" {
			bt = OrderedList
		}
		block := Block{Type: bt}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
				continue
			}
			if c.Type != html.ElementNode || c.Data != "li" {
				return fmt.Errorf("element <%s> inside <%s>: %w", nodeName(c), name, ErrUnsupportedMarkup)
			}
			spans, err := parseInline(c, Marks{})
			if err != nil {
				return err
			}
			block.Items = append(block.Items, spans)
		}
		doc.Blocks = append(doc.Blocks, block)
	case name == "blockquote":
		// A blockquote may carry inline content directly or wrap
		// paragraphs; each inner paragraph becomes its own quote block.
		hasParagraphs := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "p" {
				hasParagraphs = true
				break
			}
		}
		if hasParagraphs {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
					continue
				}
				if c.Type != html.ElementNode || c.Data != "p" {
					return fmt.Errorf("element <%s> inside <blockquote>: %w", nodeName(c), ErrUnsupportedMarkup)
				}
				spans, err := parseInline(c, Marks{})
				if err != nil {
					return err
				}
				doc.Blocks = append(doc.Blocks, Block{Type: Blockquote, Spans: spans})
			}
			return nil
		}
		spans, err := parseInline(n, Marks{})
		if err != nil {
			return err
		}
		doc.Blocks = append(doc.Blocks, Block{Type: Blockquote, Spans: spans})
	default:
		return fmt.Errorf("element <%s>: %w", name, ErrUnsupportedMarkup)
	}
	return nil
}

// parseInline flattens the children of a block-level node into spans,
// accumulating marks as it descends through inline elements.
func parseInline(n *html.Node, marks Marks) ([]Span, error) {
	var spans []Span
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			spans = append(spans, Span{Text: c.Data, Marks: marks})
		case html.CommentNode:
			// dropped: comments carry no letter content
		case html.ElementNode:
			child := marks
			switch c.Data {
			case "strong", "b":
				child.Bold = true
			case "em", "i":
				child.Italic = true
			case "u":
				child.Underline = true
			case "a":
				child.Link = attrValue(c, "href")
			default:
				return nil, fmt.Errorf("inline element <%s>: %w", c.Data, ErrUnsupportedMarkup)
			}
			inner, err := parseInline(c, child)
			if err != nil {
				return nil, err
			}
			spans = append(spans, inner...)
		default:
			return nil, fmt.Errorf("unexpected node in <%s>: %w", n.Data, ErrUnsupportedMarkup)
		}
	}
	return spans, nil
}

// Serialize renders the document back to the dialect. Serialize(Parse(s))
// is observably equivalent to s for any s that parses.
func Serialize(d *Doc) string {
	var sb strings.Builder
	for i := range d.Blocks {
		b := &d.Blocks[i]
		switch b.Type {
		case Paragraph:
			writeWrapped(&sb, "p", b.Spans)
		case Heading:
			tag := fmt.Sprintf("h%d", clampLevel(b.Level))
			writeWrapped(&sb, tag, b.Spans)
		case Blockquote:
			writeWrapped(&sb, "blockquote", b.Spans)
		case BulletList, OrderedList:
			tag := "ul"
			if b.Type == OrderedList {
				tag = "ol"
			}
			sb.WriteString("<" + tag + ">")
			for _, item := range b.Items {
				sb.WriteString("<li>")
				writeSpans(&sb, item)
				sb.WriteString("</li>")
			}
			sb.WriteString("</" + tag + ">")
		}
	}
	return sb.String()
}

func writeWrapped(sb *strings.Builder, tag string, spans []Span) {
	sb.WriteString("<" + tag + ">")
	writeSpans(sb, spans)
	sb.WriteString("</" + tag + ">")
}

func writeSpans(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		var open, closing strings.Builder
		if s.Marks.Link != "" {
			open.WriteString(`<a href="` + html.EscapeString(s.Marks.Link) + `">`)
		}
		if s.Marks.Bold {
			open.WriteString("<strong>")
		}
		if s.Marks.Italic {
			open.WriteString("<em>")
		}
		if s.Marks.Underline {
			open.WriteString("<u>")
		}
		if s.Marks.Underline {
			closing.WriteString("</u>")
		}
		if s.Marks.Italic {
			closing.WriteString("</em>")
		}
		if s.Marks.Bold {
			closing.WriteString("</strong>")
		}
		if s.Marks.Link != "" {
			closing.WriteString("</a>")
		}
		sb.WriteString(open.String())
		sb.WriteString(html.EscapeString(s.Text))
		sb.WriteString(closing.String())
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeName(n *html.Node) string {
	if n.Type == html.ElementNode {
		return n.Data
	}
	return "#text"
}
