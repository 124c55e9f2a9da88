package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Latest(ctx, "file-1", "user")
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := m.Save(ctx, &Snapshot{FileID: "file-1", UserID: "user", Trigger: TriggerManual,
		FullReport: &ReportVariant{Editable: report("v1")}})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsCurrent)
	assert.NotEmpty(t, first.ID)

	second, err := m.Save(ctx, &Snapshot{FileID: "file-1", UserID: "user", Trigger: TriggerAuto,
		FullReport: &ReportVariant{Editable: report("v2")}})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	_, err = m.Save(ctx, &Snapshot{FileID: "file-2", UserID: "user"})
	require.NoError(t, err)

	latest, err := m.Latest(ctx, "file-1", "user")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	history, err := m.History(ctx, "file-1", "user")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
	assert.False(t, history[1].IsCurrent)

	require.NoError(t, m.SetCurrent(ctx, first.ID))
	latest, err = m.Latest(ctx, "file-1", "user")
	require.NoError(t, err)
	assert.Equal(t, "v1", latest.FullReport.Editable.Name)

	require.NoError(t, m.Delete(ctx, first.ID))
	latest, err = m.Latest(ctx, "file-1", "user")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	assert.ErrorIs(t, m.Delete(ctx, first.ID), ErrNotFound)
	assert.ErrorIs(t, m.SetCurrent(ctx, "missing"), ErrNotFound)
	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	saved, err := m.Save(ctx, &Snapshot{FileID: "f", FullReport: &ReportVariant{Editable: report("orig")}})
	require.NoError(t, err)

	saved.FullReport.Editable.Name = "mutated"
	got, err := m.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "orig", got.FullReport.Editable.Name)
}

func TestMemoryStore_RequiresFileID(t *testing.T) {
	_, err := NewMemoryStore().Save(context.Background(), &Snapshot{})
	assert.Error(t, err)
}
