package snapshot

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store, used when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*Snapshot
	clock func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Snapshot), clock: time.Now}
}

func key(fileID, userID string) string {
	return fileID + "\x00" + userID
}

// Save stores a copy of snap as the current, highest version for its file.
func (m *MemoryStore) Save(_ context.Context, snap *Snapshot) (*Snapshot, error) {
	if snap == nil || snap.FileID == "" {
		return nil, fmt.Errorf("snapshot requires a file id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := snap.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = m.clock().UTC()
	stored.IsCurrent = true
	stored.Version = 1

	k := key(snap.FileID, snap.UserID)
	for _, other := range m.byID {
		if key(other.FileID, other.UserID) != k {
			continue
		}
		other.IsCurrent = false
		if other.Version >= stored.Version {
			stored.Version = other.Version + 1
		}
	}
	m.byID[stored.ID] = stored
	return stored.Clone(), nil
}

// Latest returns the current snapshot, falling back to the highest version.
func (m *MemoryStore) Latest(_ context.Context, fileID, userID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *Snapshot
	for _, s := range m.forFile(fileID, userID) {
		if s.IsCurrent {
			return s.Clone(), nil
		}
		if best == nil || s.Version > best.Version {
			best = s
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best.Clone(), nil
}

// Get returns the snapshot with the given id.
func (m *MemoryStore) Get(_ context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

// History lists a file's snapshots by descending version.
func (m *MemoryStore) History(_ context.Context, fileID, userID string) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.forFile(fileID, userID)
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Version > snaps[j].Version })
	out := make([]Summary, len(snaps))
	for i, s := range snaps {
		out[i] = s.Summary()
	}
	return out, nil
}

// SetCurrent makes id the current snapshot of its file.
func (m *MemoryStore) SetCurrent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	for _, s := range m.forFile(target.FileID, target.UserID) {
		s.IsCurrent = s.ID == id
	}
	return nil
}

// Delete removes a snapshot. Deleting the current snapshot does not promote
// another one; Latest then falls back to the highest version.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) forFile(fileID, userID string) []*Snapshot {
	k := key(fileID, userID)
	var out []*Snapshot
	for _, s := range m.byID {
		if key(s.FileID, s.UserID) == k {
			out = append(out, s)
		}
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
