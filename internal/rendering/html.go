package rendering

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jonathan/interview-feedback/internal/types"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; line-height: 1.45; margin: 2cm; color: #222; }
h1 { font-size: 20pt; margin-bottom: 0; }
.date { color: #666; margin-top: 4px; }
h2 { font-size: 15pt; border-bottom: 1px solid #ccc; padding-bottom: 4px; margin-top: 28px; }
h3 { font-size: 12pt; margin-bottom: 4px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Date}}
<p class="date">{{.Date}}</p>
{{- end}}
{{- range .Sections}}
<h2>{{.Label}}</h2>
{{- range .Items}}
<section>
<h3>{{.Heading}}</h3>
{{.Content}}
</section>
{{- end}}
{{- end}}
{{- if .NextSteps}}
<h2>Next Steps</h2>
<ol>
{{- range .NextSteps}}
{{- if .IsPoints}}
<li><strong>{{.Main}}</strong>{{if .SubPoints}}<ul>{{range .SubPoints}}<li>{{.}}</li>{{end}}</ul>{{end}}</li>
{{- else}}
<li>{{.Text}}</li>
{{- end}}
{{- end}}
</ol>
{{- end}}
</body>
</html>
`

type htmlItem struct {
	Heading string
	Content template.HTML
}

type htmlSection struct {
	Label string
	Items []htmlItem
}

type htmlReport struct {
	Title     string
	Date      string
	Sections  []htmlSection
	NextSteps []types.NextStep
}

var (
	parsedReport  *template.Template
	parseOnce     sync.Once
	parseErr      error
	contentPolicy = bluemonday.UGCPolicy()
)

func reportHTMLTemplate() (*template.Template, error) {
	parseOnce.Do(func() {
		parsedReport, parseErr = template.New("report").Parse(reportTemplate)
	})
	if parseErr != nil {
		return nil, &TemplateError{Message: "failed to parse report template", Cause: parseErr}
	}
	return parsedReport, nil
}

// ReportTitle returns the document title for an analysis.
func ReportTitle(a types.InterviewAnalysis) string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return "Interview Feedback: " + name
	}
	return "Interview Feedback"
}

// RenderHTML renders the analysis as a standalone HTML document. Item
// content that already carries markup is sanitised; plain text is escaped
// and split into paragraphs and bullets.
func RenderHTML(a types.InterviewAnalysis) (string, error) {
	tmpl, err := reportHTMLTemplate()
	if err != nil {
		return "", err
	}

	data := htmlReport{
		Title:     ReportTitle(a),
		Date:      a.FormattedDate(),
		NextSteps: nonBlankSteps(a.NextSteps),
	}
	for _, kind := range types.Sections {
		section := htmlSection{Label: kind.Label()}
		for _, entry := range a.Section(kind) {
			section.Items = append(section.Items, htmlItem{
				Heading: entry.Heading,
				Content: ContentHTML(entry.Content),
			})
		}
		data.Sections = append(data.Sections, section)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute report template", Cause: err}
	}
	return out.String(), nil
}

// ContentHTML converts item content into safe HTML.
func ContentHTML(content string) template.HTML {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if looksLikeHTML(content) {
		return template.HTML(contentPolicy.Sanitize(content)) //nolint:gosec // sanitised above
	}

	var sb strings.Builder
	inList := false
	for _, b := range textBlocks(content) {
		if b.Kind == BlockBullet && !inList {
			sb.WriteString("<ul>")
			inList = true
		}
		if b.Kind != BlockBullet && inList {
			sb.WriteString("</ul>")
			inList = false
		}
		if b.Kind == BlockBullet {
			sb.WriteString("<li>" + html.EscapeString(b.Text) + "</li>")
		} else {
			sb.WriteString("<p>" + html.EscapeString(b.Text) + "</p>")
		}
	}
	if inList {
		sb.WriteString("</ul>")
	}
	return template.HTML(sb.String()) //nolint:gosec // built from escaped text
}

func nonBlankSteps(steps []types.NextStep) []types.NextStep {
	out := make([]types.NextStep, 0, len(steps))
	for _, s := range steps {
		if !s.IsBlank() {
			out = append(out, s)
		}
	}
	return out
}
