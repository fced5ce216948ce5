package textclean

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ToPlainText parses input as markdown and returns only its readable text,
// with whitespace collapsed and URLs removed. Formatting markers, link targets
// and raw HTML are dropped.
func ToPlainText(input string) string {
	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := md.Parse([]byte(input))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering {
			switch node.Type {
			case blackfriday.Text, blackfriday.Code:
				b.Write(node.Literal)
			case blackfriday.CodeBlock:
				b.Write(node.Literal)
				b.WriteByte(' ')
			case blackfriday.Softbreak, blackfriday.Hardbreak:
				b.WriteByte(' ')
			}
			return blackfriday.GoToNext
		}

		switch node.Type {
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableCell:
			b.WriteByte(' ')
		}
		return blackfriday.GoToNext
	})

	return strings.Join(strings.Fields(RemoveLinks(b.String())), " ")
}
