package assets

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// HomepageTitle extracts the first level-1 heading from a README body. Used
// for run reporting so operators can confirm the right repository landed in
// the homepage slot. Returns "" when the document has no top-level heading.
func HomepageTitle(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	title := ""
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering || title != "" {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			var buf []byte
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					buf = append(buf, t.Segment.Value(body)...)
				}
			}
			title = string(buf)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}
