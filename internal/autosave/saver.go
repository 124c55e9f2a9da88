package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// DefaultDelay is the pause after the last edit before an autosave.
const DefaultDelay = 3 * time.Second

var (
	// ErrNoFile is returned when saving a workspace without an uploaded file
	ErrNoFile = errors.New("no file uploaded")
	// ErrNothingToSave is returned when no template holds meaningful data
	ErrNothingToSave = errors.New("nothing meaningful to save")
)

// Status describes the outcome of the most recent save.
type Status struct {
	Pending        bool      `json:"pending"`
	LastSavedAt    time.Time `json:"last_saved_at,omitempty"`
	LastSnapshotID string    `json:"last_snapshot_id,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) SaverOption {
	return func(s *Saver) {
		s.delay = d
	}
}

// WithClock overrides the time source used for snapshot timestamps.
func WithClock(now func() time.Time) SaverOption {
	return func(s *Saver) {
		s.now = now
	}
}

// Saver writes snapshots of a workspace to a snapshot store, automatically
// after edits settle and on demand.
type Saver struct {
	workspace *workspace.Store
	snapshots snapshot.Store
	logger    *zap.Logger
	delay     time.Duration
	now       func() time.Time

	debouncer   *Debouncer
	unsubscribe func()

	mu       sync.Mutex
	savedAt  time.Time
	savedID  string
	lastErr  error
	savedVer int64
}

// NewSaver creates a saver for ws. Call Start to enable autosave.
func NewSaver(ws *workspace.Store, snaps snapshot.Store, logger *zap.Logger, opts ...SaverOption) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Saver{
		workspace: ws,
		snapshots: snaps,
		logger:    logger,
		delay:     DefaultDelay,
		now:       time.Now,
		savedVer:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debouncer = NewDebouncer(s.delay, s.autosave)
	return s
}

// Start subscribes to workspace changes.
func (s *Saver) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.workspace.Subscribe(func(workspace.State) {
		s.debouncer.Trigger()
	})
}

// Stop unsubscribes and cancels any scheduled autosave.
func (s *Saver) Stop() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.debouncer.Stop()
}

// Flush performs a scheduled autosave now.
func (s *Saver) Flush(ctx context.Context) {
	s.debouncer.Flush(ctx)
}

// MarkClean records version as already persisted, so an autosave of that
// exact state is skipped. Used after loading a snapshot into the workspace.
func (s *Saver) MarkClean(version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedVer = version
}

// SaveNow captures the workspace and writes it with the given trigger.
func (s *Saver) SaveNow(ctx context.Context, trigger snapshot.Trigger) (*snapshot.Snapshot, error) {
	state := s.workspace.State()
	if !state.HasFile() {
		return nil, ErrNoFile
	}
	snap := snapshot.Capture(state, trigger, s.now())
	if !snap.HasContent() {
		return nil, ErrNothingToSave
	}

	saved, err := s.snapshots.Save(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		return nil, err
	}
	s.savedAt = saved.CreatedAt
	s.savedID = saved.ID
	s.savedVer = state.Version
	return saved, nil
}

// Status reports the last save outcome.
func (s *Saver) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Pending:        s.debouncer.Pending(),
		LastSavedAt:    s.savedAt,
		LastSnapshotID: s.savedID,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Saver) autosave(ctx context.Context) {
	s.mu.Lock()
	savedVer := s.savedVer
	s.mu.Unlock()

	state := s.workspace.State()
	if state.Version == savedVer {
		return
	}

	saved, err := s.SaveNow(ctx, snapshot.TriggerAuto)
	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrNothingToSave):
		s.logger.Debug("Autosave skipped", zap.String("session", state.SessionID), zap.Error(err))
	case err != nil:
		s.logger.Warn("Autosave failed", zap.String("session", state.SessionID), zap.Error(err))
	default:
		s.logger.Debug("Autosaved snapshot",
			zap.String("session", state.SessionID),
			zap.String("snapshot", saved.ID),
			zap.Int("version", saved.Version))
	}
}
