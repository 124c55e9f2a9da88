package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a report between the plain and ordered shapes",
	Long: `Reads a plain InterviewAnalysis or an OrderedAnalysis JSON file and writes it
in the other shape. Ordered output gets fresh item ids.`,
	RunE: runConvert,
}

var (
	convertInput  string
	convertOutput string
	convertTo     string
)

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "in", "i", "", "Path to the report JSON file (required)")
	convertCmd.Flags().StringVarP(&convertOutput, "out", "o", "", "Path to the output JSON file (required)")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target shape: ordered or plain (default: the other shape)")

	if err := convertCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := convertCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	report, err := readReport(convertInput)
	if err != nil {
		return err
	}

	target := convertTo
	if target == "" {
		target = "ordered"
		if report.Ordered != nil {
			target = "plain"
		}
	}

	var out any
	switch target {
	case "ordered":
		out = report.ordered()
	case "plain":
		plain, err := report.plain()
		if err != nil {
			return err
		}
		out = plain
	default:
		return fmt.Errorf("unknown target shape %q (want ordered or plain)", target)
	}

	if err := writeJSON(convertOutput, out); err != nil {
		return err
	}
	logger.Debug("Report converted", zap.String("to", target), zap.String("out", convertOutput))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", target, convertOutput)
	return nil
}
