package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/rendering"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a report as a document",
	Long: `Renders a plain or ordered report JSON file locally as docx, markdown, html
or pdf. PDF rendering needs a local Chrome.`,
	RunE: runExport,
}

var (
	exportInput   string
	exportOutput  string
	exportFormat  string
	exportTimeout time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to the report JSON file (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output path or directory (default: derived file name)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "docx", "Document format: docx, pdf, markdown or html")
	exportCmd.Flags().DurationVar(&exportTimeout, "pdf-timeout", rendering.DefaultPDFTimeout, "Timeout for PDF rendering")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := rendering.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	report, err := readReport(exportInput)
	if err != nil {
		return err
	}
	plain, err := report.plain()
	if err != nil {
		return err
	}

	exporter := &rendering.Exporter{PDF: rendering.NewPDFRenderer(exportTimeout, logger)}
	doc, err := exporter.Export(cmd.Context(), format, plain)
	if err != nil {
		return err
	}

	out := exportOutput
	switch {
	case out == "":
		out = doc.FileName
	case filepath.Ext(out) == "":
		out = filepath.Join(out, doc.FileName)
	}
	if err := writeFile(out, doc.Data); err != nil {
		return err
	}

	logger.Debug("Report exported", zap.String("format", string(format)), zap.Int("bytes", len(doc.Data)))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", format, out)
	return nil
}
