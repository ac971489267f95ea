package reduce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trajectory/internal/source"
	"github.com/roach88/trajectory/internal/trajectory"
)

func extract(t *testing.T, m source.Matrix, id any) (*trajectory.Store, trajectory.Subset) {
	t.Helper()
	s := trajectory.Open(context.Background(), source.Static{Rows: m})
	require.NoError(t, s.Err())
	sub, err := s.Extract(id)
	require.NoError(t, err)
	return s, sub
}

// Three points walking north along the prime meridian, one degree apart.
var meridian = source.Matrix{
	{2, 1, 2, 0},
	{0, 1, 0, 0},
	{1, 1, 1, 0},
}

func TestHaversineKM(t *testing.T) {
	assert.InDelta(t, 111.195, HaversineKM(0, 0, 1, 0), 0.001)
	assert.InDelta(t, 0, HaversineKM(48.1, 11.5, 48.1, 11.5), 1e-9)
	// Munich to Berlin, roughly 504 km.
	assert.InDelta(t, 504, HaversineKM(48.137, 11.575, 52.520, 13.405), 2)
}

func TestCount(t *testing.T) {
	s, sub := extract(t, meridian, 1)
	n, err := trajectory.Reduce(s, sub, Count)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPathLength_FollowsTimeOrder(t *testing.T) {
	s, sub := extract(t, meridian, "1")
	km, err := trajectory.Reduce(s, sub, PathLength)
	require.NoError(t, err)
	// Sorted by time the walk is 0 -> 1 -> 2 degrees, not 2 -> 0 -> 1.
	assert.InDelta(t, 2*111.195, km, 0.01)
}

func TestBoundingBox(t *testing.T) {
	m := source.Matrix{{0, 5, 10, -3}, {1, 5, -2, 7}, {2, 5, 4, 1}}
	s, sub := extract(t, m, 5)
	b, err := trajectory.Reduce(s, sub, BoundingBox)
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinLatitude: -2, MaxLatitude: 10, MinLongitude: -3, MaxLongitude: 7}, b)
}

func TestTimeSpan(t *testing.T) {
	s, sub := extract(t, meridian, 1)
	sp, err := trajectory.Reduce(s, sub, TimeSpan)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 2, Duration: 2}, sp)
}

func TestEmptySubset(t *testing.T) {
	s, sub := extract(t, meridian, 99)
	require.True(t, sub.Empty())

	_, err := trajectory.Reduce(s, sub, BoundingBox)
	require.Error(t, err)
	assert.True(t, trajectory.IsCode(err, trajectory.ErrCodeReducerFailure))
	assert.True(t, trajectory.IsCode(errors.Unwrap(err), trajectory.ErrCodeEmptySubset))

	sum, err := trajectory.Reduce(s, sub, Summarize)
	require.NoError(t, err)
	assert.Equal(t, Summary{ObjectID: 99}, sum)
}

func TestSummarize(t *testing.T) {
	s, sub := extract(t, meridian, 1)
	sum, err := trajectory.Reduce(s, sub, Summarize)
	require.NoError(t, err)

	assert.Equal(t, trajectory.ObjectID(1), sum.ObjectID)
	assert.Equal(t, 3, sum.Count)
	assert.InDelta(t, 222.39, sum.DistanceKM, 0.01)
	require.NotNil(t, sum.Bounds)
	require.NotNil(t, sum.Span)
	assert.Equal(t, 2.0, sum.Bounds.MaxLatitude)
	assert.Equal(t, 2.0, sum.Span.Duration)
}

func TestLookup(t *testing.T) {
	s, sub := extract(t, meridian, 1)

	fn, err := Lookup("length")
	require.NoError(t, err)
	got, err := trajectory.Reduce(s, sub, fn)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = Lookup("speed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown metric")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"bounds", "count", "distance", "length", "span", "summary"}, Names())
}
