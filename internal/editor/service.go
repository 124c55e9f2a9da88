// Package editor runs editing sessions: each session owns a workspace
// store, a wizard stepper and an autosaver, and the service coordinates the
// backend calls that fill them.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/autosave"
	"github.com/jonathan/interview-feedback/internal/rendering"
	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/wizard"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// DefaultEvidenceCount is how many strengths and areas LoadEvidence asks for.
const DefaultEvidenceCount = 5

// Options configures a Service.
type Options struct {
	Backend       Backend
	Generator     Generator           // Defaults to Backend
	Snapshots     snapshot.Store      // Defaults to an in-memory store
	Exporter      *rendering.Exporter // Local rendering; nil exports through the backend
	AutosaveDelay time.Duration       // Defaults to autosave.DefaultDelay
	Logger        *zap.Logger
	NewID         func() string
	Now           func() time.Time
}

// Service owns the editing sessions.
type Service struct {
	backend   Backend
	generator Generator
	snapshots snapshot.Store
	exporter  *rendering.Exporter
	delay     time.Duration
	logger    *zap.Logger
	newID     func() string
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a service. Backend is required.
func New(opts Options) (*Service, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("editor: backend is required")
	}
	s := &Service{
		backend:   opts.Backend,
		generator: opts.Generator,
		snapshots: opts.Snapshots,
		exporter:  opts.Exporter,
		delay:     opts.AutosaveDelay,
		logger:    opts.Logger,
		newID:     opts.NewID,
		now:       opts.Now,
		sessions:  make(map[string]*Session),
	}
	if s.generator == nil {
		s.generator = opts.Backend
	}
	if s.snapshots == nil {
		s.snapshots = snapshot.NewMemoryStore()
	}
	if s.delay <= 0 {
		s.delay = autosave.DefaultDelay
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Session is one user's editing session.
type Session struct {
	ID     string
	UserID string

	store   *workspace.Store
	stepper *wizard.Stepper
	saver   *autosave.Saver
	cancel  func()
}

// State returns a copy of the session's workspace.
func (s *Session) State() workspace.State {
	return s.store.State()
}

// View is the serialisable picture of a session.
type View struct {
	State    workspace.State `json:"state"`
	Wizard   wizard.State    `json:"wizard"`
	Autosave autosave.Status `json:"autosave"`
}

// View returns the current picture of the session.
func (s *Session) View() View {
	return View{
		State:    s.store.State(),
		Wizard:   s.stepper.State(),
		Autosave: s.saver.Status(),
	}
}

// CreateSession starts a session for userID with autosave enabled.
func (s *Service) CreateSession(_ context.Context, userID string) (*Session, error) {
	id := s.newID()
	store := workspace.NewStore(workspace.New(id, userID))

	sess := &Session{ID: id, UserID: userID, store: store}
	stepper, err := wizard.New(wizard.DefaultSteps(sessionChecks(store)))
	if err != nil {
		return nil, fmt.Errorf("failed to create wizard: %w", err)
	}
	sess.stepper = stepper
	sess.saver = autosave.NewSaver(store, s.snapshots, s.logger.With(zap.String("session", id)),
		autosave.WithDelay(s.delay), autosave.WithClock(s.now))
	sess.saver.Start()

	sess.syncSteps(store.State())
	sess.cancel = store.Subscribe(sess.syncSteps)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("Session created", zap.String("session", id), zap.String("user", userID))
	return sess, nil
}

// Session returns the session with the given id.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession flushes any pending autosave and forgets the session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.saver.Flush(ctx)
	sess.saver.Stop()
	sess.cancel()
	s.logger.Info("Session closed", zap.String("session", id))
	return nil
}

// Close ends every session.
func (s *Service) Close(ctx context.Context) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.CloseSession(ctx, id)
	}
}

// Sessions returns the number of open sessions.
func (s *Service) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// fail logs a failed backend call with its cause and returns it wrapped.
func (s *Service) fail(sess *Session, op string, err error) error {
	s.logger.Warn("Operation failed",
		zap.String("session", sess.ID),
		zap.String("op", op),
		zap.Error(err))
	return &OperationError{Op: op, Cause: err}
}

// requireFile returns the session's file id.
func requireFile(sess *Session) (string, error) {
	state := sess.store.State()
	if !state.HasFile() {
		return "", ErrNoFile
	}
	return state.FileID, nil
}

// sameFile guards a reducer applying a result fetched for fileID.
func sameFile(state workspace.State, fileID string) error {
	if state.FileID != fileID {
		return ErrFileChanged
	}
	return nil
}
