package host

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/engine/buffer"
	"github.com/dshills/redline/internal/engine/remap"
	"github.com/dshills/redline/internal/engine/tracking"
	"github.com/dshills/redline/internal/overlay"
	"github.com/dshills/redline/internal/viewport"
)

func trackedSnapshot() *tracking.RangesSnapshot {
	return &tracking.RangesSnapshot{
		Changes: []tracking.Change{
			{ID: "A", Op: tracking.Insert{Pos: 4, Text: "quux"}},
			{ID: "B", Op: tracking.Delete{Pos: 8, Text: "bar"}},
		},
	}
}

func TestSurfaceImplementsMapper(t *testing.T) {
	var _ remap.Mapper = New("")
	var _ Listener = overlay.NewEngine(nil, nil)
	var _ Listener = viewport.NewWatcher(nil)
}

func TestSurfaceApplyBatchDrivesEngine(t *testing.T) {
	s := New("foo quux baz")
	engine := overlay.NewEngine(s, overlay.NewRefresh(trackedSnapshot(), nil))
	s.AddListener(engine)

	err := s.ApplyBatch(buffer.NewBatch(buffer.OriginInput, buffer.NewInsert(0, ">> ")))
	require.NoError(t, err)

	assert.Equal(t, ">> foo quux baz", s.Text())
	marks := engine.Set().ByID("A")
	require.Len(t, marks, 2)
	assert.Equal(t, annotation.ByteOffset(7), marks[0].From)
	assert.Equal(t, annotation.ByteOffset(11), marks[0].To)
	assert.Equal(t, uint64(1), engine.State().Cycle)
}

func TestSurfaceApplyBatchAtomic(t *testing.T) {
	s := New("abc")
	var cycles int
	s.AddListener(ListenerFunc(func(overlay.Cycle) error {
		cycles++
		return nil
	}))

	batch := buffer.NewBatch(buffer.OriginInput,
		buffer.NewInsert(0, "x"),
		buffer.NewDelete(2, 99),
	)
	err := s.ApplyBatch(batch)

	require.ErrorIs(t, err, buffer.ErrOffsetOutOfRange)
	assert.Equal(t, "abc", s.Text())
	assert.Zero(t, cycles)
	assert.Zero(t, s.History().Len())
}

func TestSurfaceListenerOrderAndErrors(t *testing.T) {
	s := New("")
	var order []string
	boom := errors.New("boom")
	s.AddListener(ListenerFunc(func(overlay.Cycle) error {
		order = append(order, "first")
		return boom
	}))
	s.AddListener(ListenerFunc(func(overlay.Cycle) error {
		order = append(order, "second")
		return nil
	}))

	err := s.Refresh(overlay.NewRefresh(nil, nil))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSurfaceReject(t *testing.T) {
	s := New("foo quux baz")
	engine := overlay.NewEngine(s, overlay.NewRefresh(trackedSnapshot(), nil))
	s.AddListener(engine)

	batch, err := s.Reject(nil, trackedSnapshot().Index(), []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, "foo bar baz", s.Text())
	assert.Equal(t, buffer.OriginReject, batch.Origin)

	rejected := s.History().ByOrigin(buffer.OriginReject)
	require.Len(t, rejected, 1)
	assert.Equal(t, batch.ID, rejected[0].ID)

	assert.Equal(t, uint64(1), engine.State().Cycle)
}

func TestSurfaceRejectDivergedLeavesText(t *testing.T) {
	s := New("foo QUUX baz")

	_, err := s.Reject(nil, trackedSnapshot().Index(), []string{"A", "B"})

	require.Error(t, err)
	assert.Equal(t, "foo QUUX baz", s.Text())
	assert.Zero(t, s.History().Len())
}

func TestSurfaceUndo(t *testing.T) {
	s := New("hello")
	require.NoError(t, s.ApplyBatch(buffer.NewBatch(buffer.OriginInput, buffer.NewEdit(buffer.NewRange(0, 5), "bye"))))
	require.NoError(t, s.ApplyBatch(buffer.NewBatch(buffer.OriginInput, buffer.NewInsert(3, "!"))))
	assert.Equal(t, "bye!", s.Text())

	require.NoError(t, s.Undo())
	assert.Equal(t, "bye", s.Text())
	require.NoError(t, s.Undo())
	assert.Equal(t, "hello", s.Text())
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)
}

func TestSurfaceViewportChanged(t *testing.T) {
	s := New("")
	notes := make(chan viewport.Notification, 4)
	w := viewport.NewWatcher(func(n viewport.Notification) { notes <- n })
	defer w.Close()
	s.AddListener(w)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.ViewportChanged())
	}

	select {
	case n := <-notes:
		assert.Equal(t, uint64(1), n.Seq)
		assert.Equal(t, 5, n.Signals)
	case <-time.After(time.Second):
		t.Fatal("no viewport notification")
	}
}

func TestSurfaceClose(t *testing.T) {
	s := New("x")
	s.Close()

	assert.ErrorIs(t, s.ViewportChanged(), ErrClosed)
	assert.ErrorIs(t, s.ApplyBatch(buffer.NewBatch(buffer.OriginInput, buffer.NewInsert(0, "y"))), ErrClosed)
	assert.Equal(t, "x", s.Text())
}
