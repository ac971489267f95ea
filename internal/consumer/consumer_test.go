package consumer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trajectory/internal/reduce"
	"github.com/roach88/trajectory/internal/render"
	"github.com/roach88/trajectory/internal/source"
	"github.com/roach88/trajectory/internal/testutil"
	"github.com/roach88/trajectory/internal/trajectory"
)

// recordingRenderer remembers every call and can be told to fail.
type recordingRenderer struct {
	calls []renderCall
	err   error
}

type renderCall struct {
	sub  trajectory.Subset
	dest string
}

func (r *recordingRenderer) Render(_ context.Context, sub trajectory.Subset, dest string) error {
	r.calls = append(r.calls, renderCall{sub: sub, dest: dest})
	return r.err
}

func newConsumer(t *testing.T, m source.Matrix, opts ...Option) (*Consumer, *recordingRenderer) {
	t.Helper()
	store := trajectory.Open(context.Background(), source.Static{Rows: m})
	r := &recordingRenderer{}
	return New(store, r, opts...), r
}

func TestSelect_BecomesCurrent(t *testing.T) {
	c, _ := newConsumer(t, testutil.Trajectory4)

	_, ok := c.Current()
	assert.False(t, ok)

	sub, err := c.Select("4")
	require.NoError(t, err)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, sub, cur)
}

func TestSelect_FailureKeepsPreviousSubset(t *testing.T) {
	c, _ := newConsumer(t, testutil.Trajectory4)

	_, err := c.Select(4)
	require.NoError(t, err)

	_, err = c.Select("abc")
	require.Error(t, err)
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeInvalidObjectID))

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, trajectory.ObjectID(4), cur.ObjectID())
}

func TestApply_WithoutSelection(t *testing.T) {
	c, _ := newConsumer(t, testutil.Trajectory4)

	_, err := Apply(c, reduce.Count)
	require.Error(t, err)
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeNoActiveSubset))

	// Recovers on the next correct call.
	_, err = c.Select(4)
	require.NoError(t, err)
	n, err := Apply(c, reduce.Count)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRender_WithoutSelection(t *testing.T) {
	capture, logger := testutil.NewLogCapture()
	c, r := newConsumer(t, testutil.Trajectory4, WithLogger(logger))

	err := c.Render(context.Background())
	require.Error(t, err)
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeNoActiveSubset))
	assert.Empty(t, r.calls)
	assert.Equal(t, 1, capture.Count("ERROR", "render failed"))
}

func TestRender_EmptySubset(t *testing.T) {
	c, r := newConsumer(t, testutil.Trajectory4)

	// Object 7 has a single record and is filtered out.
	sub, err := c.Select(7)
	require.NoError(t, err)
	require.True(t, sub.Empty())

	err = c.Render(context.Background())
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeEmptySubset))
	assert.Empty(t, r.calls)
}

func TestRender_HandsOverFullSubset(t *testing.T) {
	capture, logger := testutil.NewLogCapture()
	c, r := newConsumer(t, testutil.Trajectory4, WithLogger(logger), WithOutput("out/trajectory.png"))

	sub, err := c.Select(4)
	require.NoError(t, err)
	require.NoError(t, c.Render(context.Background()))

	require.Len(t, r.calls, 1)
	assert.Equal(t, sub, r.calls[0].sub)
	assert.Equal(t, "out/trajectory.png", r.calls[0].dest)
	assert.Equal(t, 1, capture.Count("INFO", "plot has been saved"))
}

func TestRender_RendererFailure(t *testing.T) {
	c, r := newConsumer(t, testutil.Trajectory4)
	r.err = errors.New("disk full")

	_, err := c.Select(4)
	require.NoError(t, err)

	err = c.RenderTo(context.Background(), "x.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, r.err)

	// Still usable.
	r.err = nil
	assert.NoError(t, c.RenderTo(context.Background(), "x.png"))
}

func TestRender_NoRenderer(t *testing.T) {
	capture, logger := testutil.NewLogCapture()
	store := trajectory.Open(context.Background(), source.Static{Rows: testutil.Trajectory4})
	c := New(store, nil, WithLogger(logger))
	_, err := c.Select(4)
	require.NoError(t, err)

	assert.Error(t, c.Render(context.Background()))
	assert.Equal(t, 1, capture.Count("ERROR", "render failed"))
}

func TestProcess_FullSequence(t *testing.T) {
	c, r := newConsumer(t, testutil.Trajectory4)

	summary, err := c.Process(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, trajectory.ObjectID(4), summary.ObjectID)
	assert.Equal(t, 3, summary.Count)
	assert.Greater(t, summary.DistanceKM, 0.0)
	require.Len(t, r.calls, 1)
	assert.Equal(t, DefaultOutput, r.calls[0].dest)
}

func TestProcess_InvalidIDThenValid(t *testing.T) {
	c, r := newConsumer(t, testutil.ScenarioA)

	_, err := c.Process(context.Background(), "abc")
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeInvalidObjectID))
	assert.Empty(t, r.calls)

	summary, err := c.Process(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
}

func TestProcess_MissingSource(t *testing.T) {
	store := trajectory.Open(context.Background(), source.Open(testutil.MissingPath(t, "data.npy")))
	c := New(store, &recordingRenderer{})

	_, err := c.Process(context.Background(), 4)
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeSourceNotFound))

	_, err = Apply(c, reduce.Count)
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeSourceNotFound))
}

func TestProcess_WithPlotter(t *testing.T) {
	path := testutil.WriteNPY(t, "data.npy", testutil.Trajectory4)
	dest := filepath.Join(t.TempDir(), "plot.png")

	store := trajectory.Open(context.Background(), source.Open(path))
	c := New(store, render.NewPlotter(0, 0), WithOutput(dest))

	_, err := c.Process(context.Background(), "4")
	require.NoError(t, err)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
