package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-feedback/internal/observability"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Pretty-print a report",
	RunE:  runShow,
}

var showInput string

func init() {
	showCmd.Flags().StringVarP(&showInput, "in", "i", "", "Path to the report JSON file (required)")
	if err := showCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	report, err := readReport(showInput)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if report.Ordered != nil {
		printer.PrintOrdered(report.Ordered)
		return nil
	}
	printer.PrintAnalysis(report.Plain)
	return nil
}
