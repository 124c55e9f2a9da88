package rendering

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-feedback/internal/types"
)

func sampleAnalysis() types.InterviewAnalysis {
	return types.InterviewAnalysis{
		Name: "Jane Doe",
		Date: "2024-03-05",
		Strengths: types.HeadingMap{
			{Heading: "Communication", Content: "<p>Explains trade-offs clearly.</p><ul><li>Uses diagrams</li><li>Checks understanding</li></ul>"},
			{Heading: "Ownership", Content: "Drives work to completion.\n- Follows up on R&D tasks"},
		},
		AreasToTarget: types.HeadingMap{
			{Heading: "Delegation", Content: "Hands off <b>too little</b> work.<script>alert(1)</script>"},
		},
		NextSteps: []types.NextStep{
			types.TextStep("Pair with a senior lead"),
			types.PointStep("Read more", "Book A", ""),
			types.TextStep("   "),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"docx", FormatDOCX, false},
		{".DOCX", FormatDOCX, false},
		{"pdf", FormatPDF, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"rtf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				var fe *FormatError
				require.ErrorAs(t, err, &fe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Extension(t *testing.T) {
	assert.Equal(t, ".docx", FormatDOCX.Extension())
	assert.Equal(t, ".md", FormatMarkdown.Extension())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestContentBlocks_HTML(t *testing.T) {
	blocks := ContentBlocks("<p>First  para</p>\n<ul><li>one</li><li> </li><li>two</li></ul>Tail text<br>after")
	assert.Equal(t, []Block{
		{Kind: BlockParagraph, Text: "First para"},
		{Kind: BlockBullet, Text: "one"},
		{Kind: BlockBullet, Text: "two"},
		{Kind: BlockParagraph, Text: "Tail text"},
		{Kind: BlockParagraph, Text: "after"},
	}, blocks)
}

func TestContentBlocks_PlainText(t *testing.T) {
	blocks := ContentBlocks("Line one\n\n- bullet a\n* bullet b\nLine two")
	assert.Equal(t, []Block{
		{Kind: BlockParagraph, Text: "Line one"},
		{Kind: BlockBullet, Text: "bullet a"},
		{Kind: BlockBullet, Text: "bullet b"},
		{Kind: BlockParagraph, Text: "Line two"},
	}, blocks)
}

func TestContentBlocks_Empty(t *testing.T) {
	assert.Nil(t, ContentBlocks("  \n "))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Intro\n- a\n- b", PlainText("<p>Intro</p><ul><li>a</li><li>b</li></ul>"))
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(sampleAnalysis())
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Interview Feedback: Jane Doe</title>")
	assert.Contains(t, out, "March 5, 2024")
	assert.Contains(t, out, "<h2>Strengths</h2>")
	assert.Contains(t, out, "<h2>Areas to Target</h2>")
	assert.Contains(t, out, "<li>Uses diagrams</li>")
	assert.Contains(t, out, "<p>Drives work to completion.</p><ul><li>Follows up on R&amp;D tasks</li></ul>")
	assert.Contains(t, out, "<b>too little</b>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<li>Pair with a senior lead</li>")
	assert.Contains(t, out, "<strong>Read more</strong>")

	// Sections keep heading order.
	assert.Less(t, strings.Index(out, "Communication"), strings.Index(out, "Ownership"))
	// Blank steps are dropped.
	assert.Equal(t, 2, strings.Count(out, "<li>Pair")+strings.Count(out, "<li><strong>"))
}

func TestRenderHTML_UnnamedReport(t *testing.T) {
	out, err := RenderHTML(types.InterviewAnalysis{Date: "not a date"})
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Interview Feedback</h1>")
	assert.Contains(t, out, "not a date")
	assert.NotContains(t, out, "Next Steps")
}

func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("zip entry %s not found", name)
	return ""
}

func TestRenderDOCX(t *testing.T) {
	data, err := RenderDOCX(sampleAnalysis())
	require.NoError(t, err)

	assert.Contains(t, readZipEntry(t, data, "[Content_Types].xml"), "wordprocessingml.document.main+xml")
	doc := readZipEntry(t, data, "word/document.xml")
	assert.Contains(t, doc, `<w:pStyle w:val="Title"/>`)
	assert.Contains(t, doc, "Interview Feedback: Jane Doe")
	assert.Contains(t, doc, ">Communication<")
	assert.Contains(t, doc, "Follows up on R&amp;D tasks")
	assert.Contains(t, doc, `<w:pStyle w:val="ListBullet"/>`)
	assert.Contains(t, doc, ">Next Steps<")
	assert.Contains(t, doc, ">Book A<")
	assert.NotContains(t, doc, "<script>")
	assert.NotContains(t, doc, "alert(1)<", "script text is not emitted as markup")
}

func TestRenderMarkdown(t *testing.T) {
	md, err := RenderMarkdown(sampleAnalysis())
	require.NoError(t, err)

	assert.Contains(t, md, "Interview Feedback: Jane Doe")
	assert.Contains(t, md, "Strengths")
	assert.Contains(t, md, "Communication")
	assert.Contains(t, md, "Uses diagrams")
	assert.Contains(t, md, "**Read more**")
	assert.NotContains(t, md, "<h2>")
	assert.True(t, strings.HasSuffix(md, "\n"))
}

func TestExporter_Formats(t *testing.T) {
	e := &Exporter{}
	ctx := context.Background()

	for _, f := range []Format{FormatDOCX, FormatHTML, FormatMarkdown} {
		t.Run(string(f), func(t *testing.T) {
			doc, err := e.Export(ctx, f, sampleAnalysis())
			require.NoError(t, err)
			assert.NotEmpty(t, doc.Data)
			assert.Equal(t, "jane-doe-feedback"+f.Extension(), doc.FileName)
			assert.Equal(t, f.ContentType(), doc.ContentType())
		})
	}
}

func TestExporter_PDFNotConfigured(t *testing.T) {
	_, err := (&Exporter{}).Export(context.Background(), FormatPDF, sampleAnalysis())
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, FormatPDF, re.Format)
}

func TestExporter_UnknownFormat(t *testing.T) {
	_, err := (&Exporter{}).Export(context.Background(), Format("rtf"), sampleAnalysis())
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "interview-feedback.pdf", FileName(types.InterviewAnalysis{}, FormatPDF))
	assert.Equal(t, "o-brien-jr-feedback.md", FileName(types.InterviewAnalysis{Name: "  O'Brien, Jr. "}, FormatMarkdown))
}

func TestCountPages_Empty(t *testing.T) {
	_, err := CountPages(nil)
	assert.Error(t, err)

	_, err = CountPages([]byte("not a pdf"))
	assert.Error(t, err)
}

func findChrome() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func TestIntegration_PDFRenderer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	chrome := findChrome()
	if chrome == "" {
		t.Skip("Skipping integration test: Chrome not installed")
	}

	r := NewPDFRenderer(60*time.Second, nil)
	r.ExecPath = chrome
	pdf, err := r.Render(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	pages, err := CountPages(pdf)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)
}
