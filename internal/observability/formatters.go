// Package observability provides logging setup and formatted output for the
// CLI's verbose mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLength bounds content previews
	previewLength = 40
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func preview(s string) string {
	return truncate(strings.Join(strings.Fields(s), " "), previewLength)
}

func writeHeadings(sb *strings.Builder, label string, entries []types.HeadingEntry) {
	sb.WriteString(fmt.Sprintf("%s (%d):\n", label, len(entries)))
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s", entries[i].Heading))
		if c := preview(entries[i].Content); c != "" {
			sb.WriteString(fmt.Sprintf(": %s", c))
		}
		sb.WriteString("\n")
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(entries)-maxItemsToShow))
	}
}

func writeSteps(sb *strings.Builder, steps []types.NextStep) {
	if len(steps) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("Next Steps (%d):\n", len(steps)))
	for i, s := range steps {
		if s.IsPoints() {
			sb.WriteString(fmt.Sprintf("  %d. %s (%d points)\n", i+1, preview(s.Main), len(s.SubPoints)))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, preview(s.Text)))
		}
	}
}

// PrintAnalysis outputs a human-readable summary of a plain report.
func (p *Printer) PrintAnalysis(a *types.InterviewAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:  %s\n", a.Name))
	sb.WriteString(fmt.Sprintf("Date:  %s\n", a.FormattedDate()))
	sb.WriteString("\n")
	writeHeadings(&sb, types.SectionStrengths.Label(), a.Strengths.Entries())
	writeHeadings(&sb, types.SectionAreasToTarget.Label(), a.AreasToTarget.Entries())
	writeSteps(&sb, a.NextSteps)

	p.printBox("INTERVIEW ANALYSIS", sb.String())
}

// PrintOrdered outputs the editable form of a report, with item ids.
func (p *Printer) PrintOrdered(a *types.OrderedAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:  %s\n", a.Name))
	for _, kind := range types.Sections {
		section := a.Section(kind)
		sb.WriteString(fmt.Sprintf("%s (%d):\n", kind.Label(), section.Len()))
		for _, it := range section.List() {
			sb.WriteString(fmt.Sprintf("  [%s] %s", it.ID, it.Heading))
			if n := len(it.Evidence); n > 0 {
				sb.WriteString(fmt.Sprintf(" (%d evidence)", n))
			}
			sb.WriteString("\n")
		}
	}
	writeSteps(&sb, a.NextSteps)

	p.printBox("EDITABLE REPORT", sb.String())
}

// PrintSnapshotHistory lists snapshot summaries, newest first.
func (p *Printer) PrintSnapshotHistory(history []snapshot.Summary) {
	var sb strings.Builder
	if len(history) == 0 {
		sb.WriteString("No snapshots saved yet\n")
	}
	for _, s := range history {
		marker := " "
		if s.IsCurrent {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s v%-3d %-6s %s\n", marker, s.Version, s.Trigger,
			s.CreatedAt.Format("2006-01-02 15:04")))
		sb.WriteString(fmt.Sprintf("       %s\n", s.ID))
	}

	p.printBox("SNAPSHOT HISTORY", sb.String())
}
