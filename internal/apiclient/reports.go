package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/jonathan/interview-feedback/internal/types"
)

// TranscriptExtensions are the accepted transcript upload types.
var TranscriptExtensions = []string{".docx", ".pdf", ".txt"}

// ReportExtensions are the accepted types for re-importing an edited report.
var ReportExtensions = []string{".docx"}

// UploadTranscript sends a transcript and returns the backend's file id.
func (c *Client) UploadTranscript(ctx context.Context, fileName string, content io.Reader) (string, error) {
	if err := checkExtension(fileName, TranscriptExtensions); err != nil {
		return "", err
	}
	var resp struct {
		FileID string `json:"file_id"`
	}
	if err := c.upload(ctx, "upload transcript", "/upload", fileName, content, &resp); err != nil {
		return "", err
	}
	if resp.FileID == "" {
		return "", &APIError{Op: "upload transcript", Message: "response has no file id"}
	}
	return resp.FileID, nil
}

type fileRequest struct {
	FileID string `json:"file_id"`
	Count  int    `json:"count,omitempty"`
}

// GenerateFullReport asks the backend for the complete analysis of a file.
func (c *Client) GenerateFullReport(ctx context.Context, fileID string) (types.InterviewAnalysis, error) {
	var out types.InterviewAnalysis
	err := c.doJSON(ctx, "generate report", http.MethodPost, "/reports/full", nil, fileRequest{FileID: fileID}, &out)
	return out, err
}

// GetFeedbackAdvice returns the feedback and advice grouped by stakeholder.
func (c *Client) GetFeedbackAdvice(ctx context.Context, fileID string) ([]types.StakeholderFeedback, error) {
	var resp struct {
		Feedback []types.StakeholderFeedback `json:"feedback"`
	}
	q := url.Values{"file_id": {fileID}}
	if err := c.doJSON(ctx, "load feedback", http.MethodGet, "/feedback", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Feedback, nil
}

type groupsResponse struct {
	Groups []types.EvidenceGroup `json:"groups"`
}

// GetStrengthEvidences returns up to count strengths with their evidence.
func (c *Client) GetStrengthEvidences(ctx context.Context, fileID string, count int) ([]types.EvidenceGroup, error) {
	var resp groupsResponse
	err := c.doJSON(ctx, "load strength evidence", http.MethodPost, "/evidence/strengths", nil,
		fileRequest{FileID: fileID, Count: count}, &resp)
	return resp.Groups, err
}

// GetDevelopmentAreas returns up to count development areas with evidence.
func (c *Client) GetDevelopmentAreas(ctx context.Context, fileID string, count int) ([]types.EvidenceGroup, error) {
	var resp groupsResponse
	err := c.doJSON(ctx, "load development areas", http.MethodPost, "/evidence/areas", nil,
		fileRequest{FileID: fileID, Count: count}, &resp)
	return resp.Groups, err
}

// GenerateContent asks the backend to draft the paragraph for one heading.
func (c *Client) GenerateContent(ctx context.Context, req types.ContentRequest) (string, error) {
	var resp struct {
		Content string `json:"content"`
	}
	path := "/content/" + url.PathEscape(string(req.Section))
	if err := c.doJSON(ctx, "generate content", http.MethodPost, path, nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateNextSteps asks the backend for next steps addressing req.Areas.
func (c *Client) GenerateNextSteps(ctx context.Context, req types.NextStepsRequest) ([]types.NextStep, error) {
	var resp struct {
		NextSteps []types.NextStep `json:"next_steps"`
	}
	if err := c.doJSON(ctx, "generate next steps", http.MethodPost, "/next-steps", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.NextSteps, nil
}

// SortEvidence groups the file's evidence under the given headings.
func (c *Client) SortEvidence(ctx context.Context, fileID string, section types.SectionKind, headings []string) ([]types.EvidenceGroup, error) {
	body := struct {
		FileID   string   `json:"file_id"`
		Headings []string `json:"headings"`
	}{FileID: fileID, Headings: headings}

	var resp groupsResponse
	path := "/evidence/sort/" + url.PathEscape(string(section))
	if err := c.doJSON(ctx, "sort evidence", http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// GenerateDocument renders analysis on the backend as "docx" or "pdf".
func (c *Client) GenerateDocument(ctx context.Context, analysis types.InterviewAnalysis, format string) ([]byte, error) {
	const op = "generate document"
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, &APIError{Op: op, Message: "failed to encode request", Cause: err}
	}
	target := c.endpoint("/documents/"+url.PathEscape(format), nil)
	return c.do(ctx, op, http.MethodPost, target, "application/json", bytes.NewReader(data))
}

// UploadUpdatedReport sends an edited .docx report and returns the analysis
// the backend parsed from it.
func (c *Client) UploadUpdatedReport(ctx context.Context, fileName string, content io.Reader) (types.InterviewAnalysis, error) {
	var out types.InterviewAnalysis
	if err := checkExtension(fileName, ReportExtensions); err != nil {
		return out, err
	}
	err := c.upload(ctx, "import report", "/reports/import", fileName, content, &out)
	return out, err
}
