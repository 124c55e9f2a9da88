package rendering

import (
	"context"

	"github.com/jonathan/interview-feedback/internal/types"
)

// Document is a rendered report ready to be served or written to disk.
type Document struct {
	Format   Format
	FileName string
	Data     []byte
}

// ContentType returns the MIME type of the document.
func (d Document) ContentType() string {
	return d.Format.ContentType()
}

// Exporter renders reports in every supported format. A nil PDF renderer
// makes PDF export fail with a RenderError.
type Exporter struct {
	PDF *PDFRenderer
}

// Export renders a in the requested format.
func (e *Exporter) Export(ctx context.Context, format Format, a types.InterviewAnalysis) (*Document, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatDOCX:
		data, err = RenderDOCX(a)
	case FormatHTML:
		var s string
		s, err = RenderHTML(a)
		data = []byte(s)
	case FormatMarkdown:
		var s string
		s, err = RenderMarkdown(a)
		data = []byte(s)
	case FormatPDF:
		if e == nil || e.PDF == nil {
			return nil, &RenderError{Format: FormatPDF, Message: "pdf rendering is not configured"}
		}
		data, err = e.PDF.Render(ctx, a)
	default:
		return nil, &FormatError{Format: string(format)}
	}
	if err != nil {
		return nil, err
	}
	return &Document{Format: format, FileName: FileName(a, format), Data: data}, nil
}

// FileName derives a download name such as "jane-doe-feedback.docx".
func FileName(a types.InterviewAnalysis, format Format) string {
	slug := slugify(a.Name)
	if slug == "" {
		return "interview-feedback" + format.Extension()
	}
	return slug + "-feedback" + format.Extension()
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if len(out) > 0 && !dash {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if dash {
		out = out[:len(out)-1]
	}
	return string(out)
}
