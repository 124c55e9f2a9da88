package workspace

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpdateBumpsVersion(t *testing.T) {
	st := NewStore(New("sess", ""))
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	got, err := st.Update(func(s State) (State, error) {
		return s.WithFile("file-1", "a.docx"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, fixed, got.UpdatedAt)
	assert.Equal(t, "file-1", st.State().FileID)
}

func TestStore_ErrorLeavesState(t *testing.T) {
	st := NewStore(New("sess", ""))
	boom := errors.New("boom")

	got, err := st.Update(func(s State) (State, error) {
		s.FileID = "leaked"
		return s, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, got.FileID)
	assert.Empty(t, st.State().FileID)
	assert.Equal(t, int64(0), st.State().Version)
}

func TestStore_Subscribe(t *testing.T) {
	st := NewStore(New("sess", ""))
	var seen []int64
	cancel := st.Subscribe(func(s State) { seen = append(seen, s.Version) })

	_, _ = st.Update(func(s State) (State, error) { return s, nil })
	_, _ = st.Update(func(s State) (State, error) { return s, nil })
	cancel()
	_, _ = st.Update(func(s State) (State, error) { return s, nil })

	assert.Equal(t, []int64{1, 2}, seen)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	st := NewStore(New("sess", ""))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Update(func(s State) (State, error) { return s.CreateTemplate(TemplateCoachParagraph), nil })
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), st.State().Version)
}

func TestStore_StateIsCopy(t *testing.T) {
	st := NewStore(New("sess", ""))
	s := st.State()
	delete(s.Templates, TemplateBase)

	_, ok := st.State().Template(TemplateBase)
	assert.True(t, ok)
}
