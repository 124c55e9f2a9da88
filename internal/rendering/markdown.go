package rendering

import (
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/interview-feedback/internal/types"
)

var (
	mdConverter     *converter.Converter
	mdConverterOnce sync.Once
)

func markdownConverter() *converter.Converter {
	mdConverterOnce.Do(func() {
		mdConverter = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		)
	})
	return mdConverter
}

// RenderMarkdown renders the analysis as Markdown by converting the body of
// the HTML rendition.
func RenderMarkdown(a types.InterviewAnalysis) (string, error) {
	page, err := RenderHTML(a)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", &RenderError{Format: FormatMarkdown, Message: "failed to parse HTML", Cause: err}
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", &RenderError{Format: FormatMarkdown, Message: "failed to read HTML body", Cause: err}
	}
	md, err := markdownConverter().ConvertString(body)
	if err != nil {
		return "", &RenderError{Format: FormatMarkdown, Message: "failed to convert HTML", Cause: err}
	}
	return strings.TrimSpace(md) + "\n", nil
}
