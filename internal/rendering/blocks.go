package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BlockKind is the shape of one rendered content block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockBullet    BlockKind = "bullet"
)

// Block is a paragraph or a bullet extracted from item content.
type Block struct {
	Kind BlockKind
	Text string
}

// ContentBlocks splits item content into paragraphs and bullets. Content is
// either editor HTML (<p>, <ul>/<ol>, <br>), sanitised before parsing, or
// plain text, where each non-empty line becomes a paragraph and "- " or "* "
// lines become bullets.
func ContentBlocks(content string) []Block {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	if !looksLikeHTML(content) {
		return textBlocks(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentPolicy.Sanitize(content)))
	if err != nil {
		return textBlocks(content)
	}

	var blocks []Block
	var loose strings.Builder
	flush := func() {
		if text := normalizeSpace(loose.String()); text != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
		}
		loose.Reset()
	}

	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "ul", "ol":
			flush()
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := normalizeSpace(li.Text()); text != "" {
					blocks = append(blocks, Block{Kind: BlockBullet, Text: text})
				}
			})
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
			flush()
			if text := normalizeSpace(s.Text()); text != "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
			}
		case "br":
			flush()
		default:
			loose.WriteString(s.Text())
		}
	})
	flush()

	return blocks
}

// PlainText flattens content into text, one block per line.
func PlainText(content string) string {
	blocks := ContentBlocks(content)
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		if b.Kind == BlockBullet {
			lines[i] = "- " + b.Text
		} else {
			lines[i] = b.Text
		}
	}
	return strings.Join(lines, "\n")
}

func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}

func textBlocks(content string) []Block {
	var blocks []Block
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "• "):
			text := strings.TrimSpace(strings.TrimLeft(line, "-*• "))
			if text != "" {
				blocks = append(blocks, Block{Kind: BlockBullet, Text: text})
			}
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: line})
		}
	}
	return blocks
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
