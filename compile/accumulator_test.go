package compile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe returns scripted durations per path
type fakeProbe struct {
	durations map[string]float64
}

func (p *fakeProbe) Duration(path string) (float64, error) {
	dur, ok := p.durations[path]
	if !ok {
		return 0, fmt.Errorf("cannot read %s", path)
	}
	return dur, nil
}

func newFakeProbe(durations map[string]float64) *fakeProbe {
	return &fakeProbe{durations: durations}
}

func TestAccumulator_Additivity(t *testing.T) {
	probe := newFakeProbe(map[string]float64{
		"a.mp4": 30.5,
		"b.mp4": 45.0,
		"c.mp4": 24.5,
	})
	acc := NewAccumulator(probe, 600)

	var sum float64
	for _, clip := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		res, err := acc.Add(clip, "prompt")
		require.NoError(t, err)
		sum += probe.durations[clip]
		assert.Equal(t, sum, res.AccumulatedSec)
		assert.Equal(t, sum >= 600, res.Ready)
	}
	assert.Equal(t, 100.0, acc.AccumulatedSec())
	assert.False(t, acc.IsReady())
}

func TestAccumulator_ReadinessScenario(t *testing.T) {
	// target=600s; clips of 200, 200, 250
	probe := newFakeProbe(map[string]float64{
		"1.mp4": 200,
		"2.mp4": 200,
		"3.mp4": 250,
	})
	acc := NewAccumulator(probe, 600)

	res, err := acc.Add("1.mp4", "")
	require.NoError(t, err)
	assert.False(t, res.Ready)

	res, err = acc.Add("2.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, 400.0, res.AccumulatedSec)
	assert.False(t, res.Ready)

	res, err = acc.Add("3.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, 650.0, res.AccumulatedSec)
	assert.True(t, res.Ready)

	clips, total := acc.Drain()
	assert.Len(t, clips, 3)
	assert.Equal(t, 650.0, total)
}

func TestAccumulator_SingleClipExceedsTarget(t *testing.T) {
	probe := newFakeProbe(map[string]float64{"long.mp4": 700})
	acc := NewAccumulator(probe, 600)

	res, err := acc.Add("long.mp4", "")
	require.NoError(t, err)
	assert.True(t, res.Ready, "one clip over target should be immediately ready")
}

func TestAccumulator_UnreadableClipRejected(t *testing.T) {
	probe := newFakeProbe(map[string]float64{"good.mp4": 100})
	acc := NewAccumulator(probe, 600)

	_, err := acc.Add("good.mp4", "")
	require.NoError(t, err)

	_, err = acc.Add("corrupt.mp4", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClipUnreadable)

	// Reject-whole: nothing queued, total unchanged
	assert.Equal(t, 100.0, acc.AccumulatedSec())
	assert.Equal(t, 1, acc.PendingCount())
}

func TestAccumulator_DrainAtomicity(t *testing.T) {
	probe := newFakeProbe(map[string]float64{
		"a.mp4": 300,
		"b.mp4": 350,
	})
	acc := NewAccumulator(probe, 600)

	_, err := acc.Add("a.mp4", "pa")
	require.NoError(t, err)
	_, err = acc.Add("b.mp4", "pb")
	require.NoError(t, err)

	clips, total := acc.Drain()
	require.Len(t, clips, 2)
	assert.Equal(t, "a.mp4", clips[0].Path)
	assert.Equal(t, "b.mp4", clips[1].Path)
	assert.Equal(t, 650.0, total)

	assert.Equal(t, 0.0, acc.AccumulatedSec())
	assert.Equal(t, 0, acc.PendingCount())
	assert.False(t, acc.IsReady())
}

func TestAccumulator_DrainEmpty(t *testing.T) {
	acc := NewAccumulator(newFakeProbe(nil), 600)

	clips, total := acc.Drain()
	assert.Empty(t, clips)
	assert.Equal(t, 0.0, total)
}

func TestBuilder_NotReadyReturnsNil(t *testing.T) {
	probe := newFakeProbe(map[string]float64{
		"a.mp4": 100,
		"b.mp4": 100,
	})
	acc := NewAccumulator(probe, 600)
	_, err := acc.Add("a.mp4", "")
	require.NoError(t, err)

	builder := NewBuilder(t.TempDir(), NewThumbnailGenerator(t.TempDir()))
	artifact, err := builder.Build(context.Background(), acc, "title")
	require.NoError(t, err)
	assert.Nil(t, artifact)

	// Queue untouched: a later add keeps accumulating correctly
	res, err := acc.Add("b.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.AccumulatedSec)
	assert.Equal(t, 2, acc.PendingCount())
}
