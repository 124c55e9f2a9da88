package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/interview-feedback/internal/editing"
	"github.com/jonathan/interview-feedback/internal/schemas"
	"github.com/jonathan/interview-feedback/internal/types"
)

// reportFile is a report read from disk, in whichever shape it was saved.
type reportFile struct {
	Plain   *types.InterviewAnalysis
	Ordered *types.OrderedAnalysis
}

// readReport loads a plain or ordered analysis, telling them apart by schema.
func readReport(path string) (reportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reportFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if schemas.ValidateOrderedJSON(data) == nil {
		var ordered types.OrderedAnalysis
		if err := json.Unmarshal(data, &ordered); err != nil {
			return reportFile{}, fmt.Errorf("failed to unmarshal ordered analysis: %w", err)
		}
		if err := ordered.Validate(); err != nil {
			return reportFile{}, err
		}
		return reportFile{Ordered: &ordered}, nil
	}

	if err := schemas.ValidateAnalysisJSON(data); err != nil {
		return reportFile{}, fmt.Errorf("%s is neither a plain nor an ordered analysis: %w", path, err)
	}
	var plain types.InterviewAnalysis
	if err := json.Unmarshal(data, &plain); err != nil {
		return reportFile{}, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return reportFile{Plain: &plain}, nil
}

// plain returns the report as a plain analysis.
func (r reportFile) plain() (types.InterviewAnalysis, error) {
	if r.Plain != nil {
		return *r.Plain, nil
	}
	return editing.FromOrdered(*r.Ordered)
}

// ordered returns the report in editable form.
func (r reportFile) ordered() types.OrderedAnalysis {
	if r.Ordered != nil {
		return *r.Ordered
	}
	return editing.ToOrdered(*r.Plain)
}

// writeJSON writes v as indented JSON, creating the parent directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
