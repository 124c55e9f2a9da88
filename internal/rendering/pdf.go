package rendering

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/types"
)

// DefaultPDFTimeout bounds a single headless Chrome render.
const DefaultPDFTimeout = 30 * time.Second

// PDFRenderer prints the HTML rendition of a report to PDF with headless
// Chrome. Requires Chrome/Chromium to be installed on the system.
type PDFRenderer struct {
	Timeout  time.Duration
	ExecPath string
	Logger   *zap.Logger
}

// NewPDFRenderer returns a renderer using the given timeout, or
// DefaultPDFTimeout when timeout is zero.
func NewPDFRenderer(timeout time.Duration, logger *zap.Logger) *PDFRenderer {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{Timeout: timeout, Logger: logger}
}

// Render produces a PDF document for the analysis.
func (r *PDFRenderer) Render(ctx context.Context, a types.InterviewAnalysis) ([]byte, error) {
	doc, err := RenderHTML(a)
	if err != nil {
		return nil, err
	}
	return r.RenderHTMLDocument(ctx, doc)
}

// RenderHTMLDocument prints an arbitrary HTML document to PDF.
func (r *PDFRenderer) RenderHTMLDocument(ctx context.Context, doc string) ([]byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: FormatPDF, Message: "browser print failed", Cause: err}
	}

	logger.Debug("rendered pdf",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// CountPages returns the number of pages in a PDF document.
func CountPages(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, &RenderError{Format: FormatPDF, Message: "empty document"}
	}
	n, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, &RenderError{Format: FormatPDF, Message: "failed to read page count", Cause: err}
	}
	return n, nil
}
