package schedule

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/compile"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/upload"
)

// --- fakes ---

type fakeGen struct {
	clips []string
	err   error
	calls int
}

func (g *fakeGen) Generate(_ context.Context, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	clip := g.clips[g.calls%len(g.clips)]
	g.calls++
	return clip, nil
}

type passthroughProc struct{}

func (passthroughProc) Process(_ context.Context, clipPath, _ string) (string, error) {
	return clipPath, nil
}

type fakeProbe struct{ durations map[string]float64 }

func (p *fakeProbe) Duration(path string) (float64, error) {
	dur, ok := p.durations[path]
	if !ok {
		return 0, fmt.Errorf("cannot read %s", path)
	}
	return dur, nil
}

// fakeBuilder drains the accumulator like the real one, without ffmpeg
type fakeBuilder struct {
	builds int
	err    error
}

func (b *fakeBuilder) Build(_ context.Context, acc *compile.Accumulator, title string) (*types.CompilationArtifact, error) {
	if !acc.IsReady() {
		return nil, nil
	}
	clips, total := acc.Drain()
	if b.err != nil {
		return nil, b.err
	}
	b.builds++
	return &types.CompilationArtifact{
		ID:          fmt.Sprintf("build-%d", b.builds),
		Path:        "compilation.mp4",
		SourceClips: clips,
		TotalSec:    total,
		Title:       title,
	}, nil
}

type fakeUploader struct {
	batches [][]upload.Identity
	fail    map[string]bool
}

func (u *fakeUploader) UploadBatch(_ context.Context, artifact *types.CompilationArtifact, batch []upload.Identity, _ *types.VideoMetadata) []types.UploadResult {
	u.batches = append(u.batches, batch)
	results := make([]types.UploadResult, 0, len(batch))
	for _, id := range batch {
		status := "success"
		if u.fail[id.Name] {
			status = "failed"
		}
		results = append(results, types.UploadResult{
			Account:    id.Name,
			ArtifactID: artifact.ID,
			Status:     status,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return results
}

type fakePrompts struct{ recorded []string }

func (p *fakePrompts) Next() string { return "a corgi running through autumn leaves" }
func (p *fakePrompts) Record(prompt string) error {
	p.recorded = append(p.recorded, prompt)
	return nil
}

// --- helpers ---

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Compilation: config.CompilationConfig{TargetMinutes: 10},
		Upload: config.UploadConfig{
			PrivacyStatus:       "public",
			CategoryID:          "15",
			DescriptionTemplate: "Compilation: {title}",
			Tags:                []string{"pets"},
		},
		Schedule: config.ScheduleConfig{
			UploadIntervalMin: 15,
			TickSec:           1,
			StatusIntervalMin: 30,
			RunOnStartup:      true,
		},
		Paths: config.PathsConfig{Logs: t.TempDir()},
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func pool(names ...string) []upload.Identity {
	ids := make([]upload.Identity, len(names))
	for i, name := range names {
		ids[i] = upload.Identity{Name: name}
	}
	return ids
}

func newTestScheduler(t *testing.T, gen Generator, acc *compile.Accumulator,
	builder Builder, rotator *upload.Rotator, uploader BatchUploader) (*Scheduler, *fakePrompts) {
	t.Helper()
	prompts := &fakePrompts{}
	titles := compile.NewTitleGenerator(newRand())
	s := New(testConfig(t), gen, passthroughProc{}, acc, builder, titles, rotator, uploader, prompts)
	return s, prompts
}

// --- tests ---

func TestScheduler_CycleAccumulatesUntilReady(t *testing.T) {
	probe := &fakeProbe{durations: map[string]float64{"clip.mp4": 250}}
	acc := compile.NewAccumulator(probe, 600)
	gen := &fakeGen{clips: []string{"clip.mp4"}}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{}
	s, prompts := newTestScheduler(t, gen, acc, builder, upload.NewRotator(pool("a", "b", "c")), uploader)

	ctx := context.Background()

	// 250 + 250 < 600: no build yet
	s.Cycle(ctx)
	s.Cycle(ctx)
	assert.Equal(t, 0, builder.builds)
	assert.Equal(t, 500.0, acc.AccumulatedSec())

	// Third clip crosses the target: build + upload, accumulator reset
	s.Cycle(ctx)
	assert.Equal(t, 1, builder.builds)
	assert.Equal(t, 0.0, acc.AccumulatedSec())
	require.Len(t, uploader.batches, 1)
	assert.Len(t, uploader.batches[0], 3, "one compilation goes to the whole pool")

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.GenerationCount)
	assert.Equal(t, 3, snap.UploadCount)
	assert.Len(t, prompts.recorded, 3)
}

func TestScheduler_GenerationFailureSkipsCycle(t *testing.T) {
	acc := compile.NewAccumulator(&fakeProbe{}, 600)
	gen := &fakeGen{err: errors.New("provider down")}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{}
	s, prompts := newTestScheduler(t, gen, acc, builder, upload.NewRotator(pool("a")), uploader)

	s.Cycle(context.Background())

	assert.Equal(t, 0, s.Snapshot().GenerationCount)
	assert.Equal(t, 0.0, acc.AccumulatedSec())
	assert.Empty(t, prompts.recorded, "failed generations are not recorded")
	assert.Empty(t, uploader.batches)
}

func TestScheduler_UnreadableClipContained(t *testing.T) {
	// Probe knows nothing, so every clip is rejected
	acc := compile.NewAccumulator(&fakeProbe{}, 600)
	gen := &fakeGen{clips: []string{"corrupt.mp4"}}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{}
	s, _ := newTestScheduler(t, gen, acc, builder, upload.NewRotator(pool("a")), uploader)

	s.Cycle(context.Background())

	assert.Equal(t, 1, s.Snapshot().GenerationCount)
	assert.Equal(t, 0.0, acc.AccumulatedSec())
	assert.Equal(t, 0, builder.builds)
}

func TestScheduler_NoAccountsSkipsUploadPhase(t *testing.T) {
	probe := &fakeProbe{durations: map[string]float64{"clip.mp4": 700}}
	acc := compile.NewAccumulator(probe, 600)
	gen := &fakeGen{clips: []string{"clip.mp4"}}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{}
	s, _ := newTestScheduler(t, gen, acc, builder, upload.NewRotator(nil), uploader)

	s.Cycle(context.Background())

	// Compilation was built, upload phase skipped, loop not aborted
	assert.Equal(t, 1, builder.builds)
	assert.Empty(t, uploader.batches)
	assert.Equal(t, 0, s.Snapshot().UploadCount)
}

func TestScheduler_CompilationFailureDropsBatch(t *testing.T) {
	probe := &fakeProbe{durations: map[string]float64{"clip.mp4": 700}}
	acc := compile.NewAccumulator(probe, 600)
	gen := &fakeGen{clips: []string{"clip.mp4"}}
	builder := &fakeBuilder{err: compile.ErrCompilationFailed}
	uploader := &fakeUploader{}
	s, _ := newTestScheduler(t, gen, acc, builder, upload.NewRotator(pool("a")), uploader)

	s.Cycle(context.Background())

	// No rollback: the drained clips stay gone and nothing is uploaded
	assert.Equal(t, 0.0, acc.AccumulatedSec())
	assert.Empty(t, uploader.batches)
}

func TestScheduler_FailedUploadsNotCounted(t *testing.T) {
	probe := &fakeProbe{durations: map[string]float64{"clip.mp4": 700}}
	acc := compile.NewAccumulator(probe, 600)
	gen := &fakeGen{clips: []string{"clip.mp4"}}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{fail: map[string]bool{"b": true}}
	s, _ := newTestScheduler(t, gen, acc, builder, upload.NewRotator(pool("a", "b", "c")), uploader)

	s.Cycle(context.Background())

	assert.Equal(t, 2, s.Snapshot().UploadCount)
}

func TestScheduler_RotationFairnessAcrossCycles(t *testing.T) {
	probe := &fakeProbe{durations: map[string]float64{"clip.mp4": 700}}
	acc := compile.NewAccumulator(probe, 600)
	gen := &fakeGen{clips: []string{"clip.mp4"}}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{}
	s, _ := newTestScheduler(t, gen, acc, builder, upload.NewRotator(pool("X", "Y", "Z")), uploader)

	ctx := context.Background()
	s.Cycle(ctx)
	s.Cycle(ctx)

	require.Len(t, uploader.batches, 2)
	// Each batch covers the pool once, starting at the cursor
	assert.Equal(t, "X", uploader.batches[0][0].Name)
	assert.Equal(t, "X", uploader.batches[1][0].Name)
}

func TestScheduler_RescheduleFromNow(t *testing.T) {
	acc := compile.NewAccumulator(&fakeProbe{}, 600)
	s, _ := newTestScheduler(t, &fakeGen{err: errors.New("n/a")}, acc,
		&fakeBuilder{}, upload.NewRotator(pool("a")), &fakeUploader{})

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	s.reschedule()
	assert.Equal(t, base.Add(15*time.Minute), s.Snapshot().NextTrigger)
	assert.False(t, s.Due())

	// A late tick reschedules from "now", never from the previous trigger:
	// no catch-up bursts after a stall
	base = base.Add(40 * time.Minute)
	assert.True(t, s.Due())
	s.reschedule()
	assert.Equal(t, base.Add(15*time.Minute), s.Snapshot().NextTrigger)
}
