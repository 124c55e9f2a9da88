package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/interview-feedback/internal/config"
	"github.com/jonathan/interview-feedback/internal/editor"
	"github.com/jonathan/interview-feedback/internal/rendering"
	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

type stubBackend struct {
	mu       sync.Mutex
	uploaded []string
}

func (b *stubBackend) UploadTranscript(_ context.Context, fileName string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploaded = append(b.uploaded, fileName+":"+string(data))
	return "file-1", nil
}

func (b *stubBackend) GenerateFullReport(context.Context, string) (types.InterviewAnalysis, error) {
	return types.InterviewAnalysis{
		Name:          "Jane Doe",
		Date:          "2024-03-01",
		Strengths:     types.HeadingMap{{Heading: "Leadership", Content: "Leads well"}},
		AreasToTarget: types.HeadingMap{{Heading: "Delegation", Content: "Delegate more"}},
		NextSteps:     []types.NextStep{types.TextStep("Pair with a mentor")},
	}, nil
}

func (b *stubBackend) GetFeedbackAdvice(context.Context, string) ([]types.StakeholderFeedback, error) {
	return []types.StakeholderFeedback{{Stakeholder: "Alex", Feedback: []string{"Clear communicator"}}}, nil
}

func (b *stubBackend) GetStrengthEvidences(context.Context, string, int) ([]types.EvidenceGroup, error) {
	return nil, nil
}

func (b *stubBackend) GetDevelopmentAreas(context.Context, string, int) ([]types.EvidenceGroup, error) {
	return nil, nil
}

func (b *stubBackend) SortEvidence(context.Context, string, types.SectionKind, []string) ([]types.EvidenceGroup, error) {
	return nil, nil
}

func (b *stubBackend) GenerateContent(context.Context, types.ContentRequest) (string, error) {
	return "Regenerated", nil
}

func (b *stubBackend) GenerateNextSteps(context.Context, types.NextStepsRequest) ([]types.NextStep, error) {
	return []types.NextStep{types.TextStep("Shadow a lead")}, nil
}

func (b *stubBackend) GenerateDocument(context.Context, types.InterviewAnalysis, string) ([]byte, error) {
	return []byte("doc"), nil
}

func (b *stubBackend) UploadUpdatedReport(context.Context, string, io.Reader) (types.InterviewAnalysis, error) {
	return types.InterviewAnalysis{}, nil
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	svc, err := editor.New(editor.Options{
		Backend:       &stubBackend{},
		Snapshots:     snapshot.NewMemoryStore(),
		Exporter:      &rendering.Exporter{},
		AutosaveDelay: time.Hour,
		Logger:        zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	srv, err := New(cfg, svc, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.Stop()
		svc.Close(context.Background())
	})
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"user_id": "coach"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sessionResponse](t, rec).ID
}

func uploadFile(t *testing.T, h http.Handler, path, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// reportSession returns a session with an uploaded transcript and a
// generated full report.
func reportSession(t *testing.T, h http.Handler) string {
	t.Helper()
	id := createSession(t, h)
	rec := uploadFile(t, h, "/sessions/"+id+"/upload", "interview.txt", "transcript")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return id
}

func TestNew_RequiresEditor(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[sessionResponse](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, anonymousUser, created.UserID)
	assert.Equal(t, workspace.TemplateBase, created.State.Active)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[sessionResponse](t, rec).ID)

	rec = doJSON(t, h, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "session not found")
}

func TestCreateSession_UserIDFromBody(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"user_id": "coach-7"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "coach-7", decode[sessionResponse](t, rec).UserID)
}

func TestCreateSession_InvalidJSON(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := uploadFile(t, h, "/sessions/"+id+"/upload", "interview.txt", "transcript")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[editor.View](t, rec)
	assert.Equal(t, "file-1", view.State.FileID)
	assert.Equal(t, "interview.txt", view.State.FileName)
}

func TestUpload_MissingFile(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/upload", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReport_RequiresFile(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/report", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateReport(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)
	require.Equal(t, http.StatusOK, uploadFile(t, h, "/sessions/"+id+"/upload", "interview.txt", "x").Code)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[editor.View](t, rec)
	assert.Equal(t, workspace.TemplateFullReport, view.State.Active)
	report := view.State.Templates[workspace.TemplateFullReport]
	assert.Equal(t, "Jane Doe", report.Name)
	require.Equal(t, 1, report.Strengths.Len())
	assert.Equal(t, "Leadership", report.Strengths.List()[0].Heading)
}

func TestGenerateReportStream(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)
	require.Equal(t, http.StatusOK, uploadFile(t, h, "/sessions/"+id+"/upload", "interview.txt", "x").Code)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/report/stream", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, `"stage":"done"`)
	assert.Contains(t, body, "event: complete")
}

func TestGenerateReportStream_Error(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/report/stream", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error")
	assert.NotContains(t, rec.Body.String(), "event: complete")
}

func TestLoadFeedback(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := reportSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/feedback", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string][]types.StakeholderFeedback](t, rec)
	require.Len(t, body["feedback"], 1)
	assert.Equal(t, "Alex", body["feedback"][0].Stakeholder)
}

func TestEdits(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := reportSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/edits", editor.Operation{
		Op:      editor.OpAddItem,
		Section: types.SectionStrengths,
		Heading: "Communication",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[editor.EditResult](t, rec)
	require.NotEmpty(t, result.ItemID)
	item, ok := result.State.Templates[workspace.TemplateFullReport].Strengths.Get(result.ItemID)
	require.True(t, ok)
	assert.Equal(t, "Communication 1", item.Heading)

	t.Run("duplicate heading conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/edits", editor.Operation{
			Op:      editor.OpRenameItem,
			Section: types.SectionStrengths,
			ItemID:  result.ItemID,
			Heading: "Leadership",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("blank heading", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/edits", editor.Operation{
			Op:      editor.OpRenameItem,
			Section: types.SectionStrengths,
			ItemID:  result.ItemID,
			Heading: "  ",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown section", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/edits", editor.Operation{
			Op:      editor.OpAddItem,
			Section: "weaknesses",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing op", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/edits", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/edits", editor.Operation{
			Op:      editor.OpDeleteItem,
			Section: types.SectionAreasToTarget,
			ItemID:  "missing",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRegenerateItem(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := reportSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/sessions/"+id, nil)
	view := decode[sessionResponse](t, rec)
	itemID := view.State.Templates[workspace.TemplateFullReport].Strengths.Order[0]

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/sections/strengths/items/"+itemID+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Regenerated", decode[types.Item](t, rec).Content)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/sections/bogus/items/"+itemID+"/generate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateNextSteps(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := reportSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/next-steps/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string][]types.NextStep](t, rec)
	require.Len(t, body["next_steps"], 1)
	assert.Equal(t, "Shadow a lead", body["next_steps"][0].Text)
}

func TestChoosePathAndSelectTab(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/path", pathRequest{Template: string(workspace.TemplateAICompetencies)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[editor.View](t, rec)
	assert.Equal(t, workspace.TemplateAICompetencies, view.State.Active)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/path", pathRequest{Template: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/sessions/"+id+"/tab", tabRequest{TabID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWizard(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/wizard", editor.WizardRequest{Action: editor.WizardNext})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[editor.WizardResult](t, rec)
	assert.False(t, result.Moved)
	assert.Equal(t, 1, result.Wizard.Current)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/wizard", map[string]string{"action": "jump"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/wizard", editor.WizardRequest{Action: editor.WizardGoTo, Step: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := reportSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/sessions/"+id+"/export?format=md", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "jane-doe-feedback.md")
	assert.Contains(t, rec.Body.String(), "Leadership")

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id+"/export?format=rtf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong. Please try again.", decode[map[string]string](t, rec)["error"])
}

func TestSnapshots(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := reportSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/snapshots", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	snap := decode[snapshot.Snapshot](t, rec)
	require.NotEmpty(t, snap.ID)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id+"/snapshots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[map[string][]snapshot.Summary](t, rec)["snapshots"]
	require.Len(t, history, 1)
	assert.Equal(t, snap.ID, history[0].ID)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/snapshots/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/snapshots/"+snap.ID+"/load", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPut, "/sessions/"+id+"/snapshots/"+snap.ID+"/current", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/sessions/"+id+"/snapshots/"+snap.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/snapshots/"+snap.ID+"/load", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveSnapshot_NothingToSave(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/snapshots", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConvert(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	plain := types.InterviewAnalysis{
		Name:          "Sam",
		Strengths:     types.HeadingMap{{Heading: "Focus", Content: "Stays on task"}},
		AreasToTarget: types.HeadingMap{},
		NextSteps:     []types.NextStep{types.PointStep("Plan", "Weekly review")},
	}
	rec := doJSON(t, h, http.MethodPost, "/convert/ordered", plain)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ordered := decode[types.OrderedAnalysis](t, rec)
	require.NoError(t, ordered.Validate())
	assert.Equal(t, 1, ordered.Strengths.Len())

	rec = doJSON(t, h, http.MethodPost, "/convert/plain", ordered)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	back := decode[types.InterviewAnalysis](t, rec)
	assert.Equal(t, plain.Strengths, back.Strengths)
	assert.Equal(t, plain.NextSteps, back.NextSteps)
}

func TestValidate(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	rec := doJSON(t, h, http.MethodPost, "/validate/analysis", map[string]any{
		"strengths":       map[string]string{"Focus": "Stays on task"},
		"areas_to_target": map[string]string{},
		"next_steps":      []string{"Plan"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["valid"])

	rec = doJSON(t, h, http.MethodPost, "/validate/analysis", map[string]any{"strengths": "nope"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["valid"])

	rec = doJSON(t, h, http.MethodPost, "/validate/resume", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, Config{AllowedOrigins: []string{"https://app.example.com"}}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	// POST /sessions allows a burst of 10.
	for i := 0; i < 10; i++ {
		rec := doJSON(t, h, http.MethodPost, "/sessions", nil)
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i)
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := doJSON(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, rec)["error"])

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodGet, "/health", nil).Code)
}

func TestAuth(t *testing.T) {
	jwtCfg := &config.JWTConfig{Secret: strings.Repeat("s", 32), ExpirationHours: 1}
	srv := newTestServer(t, Config{JWT: jwtCfg})
	h := srv.Handler()
	tokens := NewJWTService(jwtCfg)

	owner := uuid.New()
	ownerToken, err := tokens.GenerateToken(owner)
	require.NoError(t, err)
	otherToken, err := tokens.GenerateToken(uuid.New())
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodPost, "/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"user_id": "spoofed"}, "Authorization", "Bearer "+ownerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[sessionResponse](t, rec)
	assert.Equal(t, owner.String(), created.UserID)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+created.ID, nil, "Authorization", "Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+created.ID, nil, "Authorization", "Bearer "+otherToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Unauthenticated routes stay open.
	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodGet, "/health", nil).Code)
}
