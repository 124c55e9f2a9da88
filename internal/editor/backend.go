package editor

import (
	"context"
	"io"

	"github.com/jonathan/interview-feedback/internal/types"
)

// Generator drafts AI content. It is served by the backend or, in local
// mode, by the Gemini feedback generator.
type Generator interface {
	GenerateContent(ctx context.Context, req types.ContentRequest) (string, error)
	GenerateNextSteps(ctx context.Context, req types.NextStepsRequest) ([]types.NextStep, error)
}

// Backend is the remote report service.
type Backend interface {
	Generator
	UploadTranscript(ctx context.Context, fileName string, content io.Reader) (string, error)
	GenerateFullReport(ctx context.Context, fileID string) (types.InterviewAnalysis, error)
	GetFeedbackAdvice(ctx context.Context, fileID string) ([]types.StakeholderFeedback, error)
	GetStrengthEvidences(ctx context.Context, fileID string, count int) ([]types.EvidenceGroup, error)
	GetDevelopmentAreas(ctx context.Context, fileID string, count int) ([]types.EvidenceGroup, error)
	SortEvidence(ctx context.Context, fileID string, section types.SectionKind, headings []string) ([]types.EvidenceGroup, error)
	GenerateDocument(ctx context.Context, analysis types.InterviewAnalysis, format string) ([]byte, error)
	UploadUpdatedReport(ctx context.Context, fileName string, content io.Reader) (types.InterviewAnalysis, error)
}
