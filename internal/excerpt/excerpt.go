// Package excerpt derives plain-text previews from markdown post bodies.
package excerpt

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultWordLimit matches the listing card's preview length.
const DefaultWordLimit = 25

var md = goldmark.New()

// PlainText renders markdown to plain text by walking the parsed AST instead
// of regex-stripping, so nested and escaped markup come out right.
func PlainText(markdown string) string {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Block boundaries become single spaces.
			if n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.FencedCodeBlock:
			writeLines(&buf, src, t)
		case *ast.CodeBlock:
			writeLines(&buf, src, t)
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

func writeLines(buf *bytes.Buffer, src []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
		buf.WriteByte(' ')
	}
}

// FromMarkdown strips markdown and truncates to wordLimit words, appending
// "..." when the text was cut.
func FromMarkdown(markdown string, wordLimit int) string {
	if markdown == "" {
		return ""
	}
	if wordLimit <= 0 {
		wordLimit = DefaultWordLimit
	}

	words := strings.Fields(PlainText(markdown))
	if len(words) > wordLimit {
		return strings.Join(words[:wordLimit], " ") + "..."
	}
	return strings.Join(words, " ")
}
