// Package schemas embeds the JSON Schemas of the documents the editor reads
// and writes.
package schemas

import "embed"

// Schema file names.
const (
	InterviewAnalysis = "interview_analysis.schema.json"
	OrderedAnalysis   = "ordered_analysis.schema.json"
	Snapshot          = "snapshot.schema.json"
)

// Files lists every embedded schema.
var Files = []string{InterviewAnalysis, OrderedAnalysis, Snapshot}

//go:embed *.schema.json
var FS embed.FS

// Read returns the content of an embedded schema.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
