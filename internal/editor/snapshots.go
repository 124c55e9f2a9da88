package editor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// SaveSnapshot writes the session's reports as a manual snapshot.
func (s *Service) SaveSnapshot(ctx context.Context, sessionID string) (*snapshot.Snapshot, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	saved, err := sess.saver.SaveNow(ctx, snapshot.TriggerManual)
	if err != nil {
		return nil, s.fail(sess, "save snapshot", err)
	}
	s.logger.Info("Snapshot saved",
		zap.String("session", sess.ID),
		zap.String("snapshot", saved.ID),
		zap.Int("version", saved.Version))
	return saved, nil
}

// LoadLatestSnapshot restores the current snapshot of the session's file.
func (s *Service) LoadLatestSnapshot(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	if _, err := requireFile(sess); err != nil {
		return View{}, err
	}
	if _, err := s.restoreLatest(ctx, sess); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

func (s *Service) restoreLatest(ctx context.Context, sess *Session) (*snapshot.Snapshot, error) {
	state := sess.store.State()
	snap, err := s.snapshots.Latest(ctx, state.FileID, sess.UserID)
	if err != nil {
		return nil, err
	}
	return snap, s.apply(sess, snap)
}

// LoadSnapshot restores a specific snapshot of the session's file and makes
// it the current one.
func (s *Service) LoadSnapshot(ctx context.Context, sessionID, snapshotID string) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return View{}, err
	}

	snap, err := s.snapshots.Get(ctx, snapshotID)
	if err != nil {
		return View{}, err
	}
	if err := checkOwner(sess, fileID, snap); err != nil {
		return View{}, err
	}
	if err := s.snapshots.SetCurrent(ctx, snap.ID); err != nil {
		return View{}, s.fail(sess, "set current snapshot", err)
	}
	if err := s.apply(sess, snap); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// apply reconciles the workspace with snap. The resulting state is marked
// clean so restoring does not immediately autosave a copy.
func (s *Service) apply(sess *Session, snap *snapshot.Snapshot) error {
	next, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, snap.FileID); err != nil {
			return st, err
		}
		return snapshot.Reconcile(st, snap), nil
	})
	if err != nil {
		return err
	}
	sess.saver.MarkClean(next.Version)
	s.logger.Info("Snapshot restored",
		zap.String("session", sess.ID),
		zap.String("snapshot", snap.ID),
		zap.Int("version", snap.Version))
	return nil
}

// SnapshotHistory lists the snapshots of the session's file, newest first.
func (s *Service) SnapshotHistory(ctx context.Context, sessionID string) ([]snapshot.Summary, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return nil, err
	}
	return s.snapshots.History(ctx, fileID, sess.UserID)
}

// DeleteSnapshot removes one snapshot of the session's file. The workspace
// is left as it is.
func (s *Service) DeleteSnapshot(ctx context.Context, sessionID, snapshotID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return err
	}
	snap, err := s.snapshots.Get(ctx, snapshotID)
	if err != nil {
		return err
	}
	if err := checkOwner(sess, fileID, snap); err != nil {
		return err
	}
	return s.snapshots.Delete(ctx, snapshotID)
}

// SetCurrentSnapshot marks a snapshot of the session's file as current
// without touching the workspace. LoadLatestSnapshot then restores it.
func (s *Service) SetCurrentSnapshot(ctx context.Context, sessionID, snapshotID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return err
	}
	snap, err := s.snapshots.Get(ctx, snapshotID)
	if err != nil {
		return err
	}
	if err := checkOwner(sess, fileID, snap); err != nil {
		return err
	}
	return s.snapshots.SetCurrent(ctx, snapshotID)
}

// checkOwner rejects a snapshot of another file or of another user.
// Snapshots saved without a user belong to every session on the file.
func checkOwner(sess *Session, fileID string, snap *snapshot.Snapshot) error {
	if snap.FileID != fileID || (snap.UserID != "" && snap.UserID != sess.UserID) {
		return fmt.Errorf("%w: %s", ErrSnapshotMismatch, snap.ID)
	}
	return nil
}
