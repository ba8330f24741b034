package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/compile"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/upload"
)

// Generator produces one clip from a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Processor post-processes a raw clip for upload
type Processor interface {
	Process(ctx context.Context, clipPath, prompt string) (string, error)
}

// Builder materializes a compilation from the accumulator
type Builder interface {
	Build(ctx context.Context, acc *compile.Accumulator, title string) (*types.CompilationArtifact, error)
}

// BatchUploader publishes one artifact to a batch of identities
type BatchUploader interface {
	UploadBatch(ctx context.Context, artifact *types.CompilationArtifact, batch []upload.Identity, meta *types.VideoMetadata) []types.UploadResult
}

// PromptSource hands out prompts and records the ones actually used
type PromptSource interface {
	Next() string
	Record(prompt string) error
}

// State is the scheduler's run-scoped bookkeeping. In memory only;
// re-initialized on process restart.
type State struct {
	LastTick        time.Time
	NextTrigger     time.Time
	GenerationCount int
	UploadCount     int
}

// Scheduler drives the whole loop: every tick it checks whether the next
// trigger time has passed and, if so, runs one full
// generate → accumulate → maybe compile → maybe upload cycle. One cycle
// runs to completion before the next tick is evaluated.
type Scheduler struct {
	cfg      *config.Config
	gen      Generator
	proc     Processor
	acc      *compile.Accumulator
	builder  Builder
	titles   *compile.TitleGenerator
	rotator  *upload.Rotator
	uploader BatchUploader
	prompts  PromptSource

	state State
	now   func() time.Time
}

// New wires a scheduler from its collaborators
func New(cfg *config.Config, gen Generator, proc Processor, acc *compile.Accumulator,
	builder Builder, titles *compile.TitleGenerator, rotator *upload.Rotator,
	uploader BatchUploader, prompts PromptSource) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		gen:      gen,
		proc:     proc,
		acc:      acc,
		builder:  builder,
		titles:   titles,
		rotator:  rotator,
		uploader: uploader,
		prompts:  prompts,
		now:      time.Now,
	}
}

// Run starts the loop and blocks until ctx is cancelled. A cycle already
// underway at cancellation runs to completion; a cancelled-mid-transfer
// upload is recorded as failed, never success.
func (s *Scheduler) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Schedule.UploadIntervalMin) * time.Minute

	log.Printf("🚀 Continuous scheduler started")
	log.Printf("[schedule] Upload interval: %s, accumulation target: %.0f min, %d account(s)",
		interval, s.cfg.Compilation.TargetMinutes, s.rotator.Size())

	if s.rotator.Size() == 0 {
		log.Printf("[schedule] ⚠️  NO ACCOUNTS CONFIGURED — uploads will be skipped until credentials are added")
	}

	if s.cfg.Schedule.RunOnStartup {
		log.Printf("[schedule] 🎬 Running initial generation...")
		s.Cycle(ctx)
		s.reschedule()
	} else {
		s.state.NextTrigger = s.now().Add(interval)
	}

	ticker := time.NewTicker(time.Duration(s.cfg.Schedule.TickSec) * time.Second)
	defer ticker.Stop()
	status := time.NewTicker(time.Duration(s.cfg.Schedule.StatusIntervalMin) * time.Minute)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("⏹️  Scheduler stopping")
			s.logStatus()
			return
		case <-status.C:
			// Read-only: never mutates scheduler state
			s.logStatus()
		case <-ticker.C:
			s.state.LastTick = s.now()
			if s.Due() {
				log.Printf("[schedule] ⏰ Trigger time reached")
				s.Cycle(ctx)
				s.reschedule()
			}
		}
	}
}

// Due reports whether the next trigger time has passed
func (s *Scheduler) Due() bool {
	return !s.now().Before(s.state.NextTrigger)
}

// Cycle runs one generate → accumulate → [compile → upload] pass. Failures
// local to one clip or one account are contained here; they never abort the
// loop.
func (s *Scheduler) Cycle(ctx context.Context) {
	log.Printf("[schedule] 📹 Video generation #%d", s.state.GenerationCount+1)

	prompt := s.prompts.Next()

	clipPath, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[schedule] ❌ Generation failed: %v", err)
		return
	}
	s.state.GenerationCount++

	if err := s.prompts.Record(prompt); err != nil {
		log.Printf("[schedule] Warning: could not record prompt: %v", err)
	}

	processed, err := s.proc.Process(ctx, clipPath, prompt)
	if err != nil {
		log.Printf("[schedule] ❌ Processing failed, clip dropped: %v", err)
		return
	}

	result, err := s.acc.Add(processed, prompt)
	if err != nil {
		if errors.Is(err, compile.ErrClipUnreadable) {
			log.Printf("[schedule] ❌ Clip rejected: %v", err)
		} else {
			log.Printf("[schedule] ❌ Could not queue clip: %v", err)
		}
		return
	}

	if result.Ready {
		log.Printf("[schedule] 🎥 Compilation ready (%.0fs accumulated)!", result.AccumulatedSec)
		s.compileAndUpload(ctx)
	}
}

func (s *Scheduler) compileAndUpload(ctx context.Context) {
	title := s.titles.Generate()

	artifact, err := s.builder.Build(ctx, s.acc, title)
	if err != nil {
		// Drained clips are gone; policy is log-and-continue, no rollback
		log.Printf("[schedule] ❌ %v — nothing to upload this cycle", err)
		return
	}
	if artifact == nil {
		return
	}

	batch, err := s.rotator.DrawCycle()
	if err != nil {
		log.Printf("[schedule] ⚠️  %v — SKIPPING upload phase; operator intervention required", err)
		return
	}

	results := s.uploader.UploadBatch(ctx, artifact, batch, s.metadata(artifact))

	for _, r := range results {
		if r.Status == "success" {
			s.state.UploadCount++
		}
	}
	s.appendResults(results)
}

func (s *Scheduler) metadata(artifact *types.CompilationArtifact) *types.VideoMetadata {
	description := strings.ReplaceAll(s.cfg.Upload.DescriptionTemplate, "{title}", artifact.Title)
	return &types.VideoMetadata{
		Title:         artifact.Title,
		Description:   description,
		Tags:          s.cfg.Upload.Tags,
		CategoryID:    s.cfg.Upload.CategoryID,
		PrivacyStatus: s.cfg.Upload.PrivacyStatus,
		ThumbnailPath: artifact.ThumbnailRef,
	}
}

// reschedule sets the next trigger a full interval from now, not from the
// previous trigger, so delayed ticks never cause catch-up bursts
func (s *Scheduler) reschedule() {
	interval := time.Duration(s.cfg.Schedule.UploadIntervalMin) * time.Minute
	s.state.NextTrigger = s.now().Add(interval)
	log.Printf("[schedule] ⏰ Next upload scheduled for %s", s.state.NextTrigger.Format("15:04:05"))
}

// appendResults writes the batch results to the append-only upload log
func (s *Scheduler) appendResults(results []types.UploadResult) {
	logFile := filepath.Join(s.cfg.Paths.Logs, "uploads.jsonl")
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("[schedule] Warning: could not open upload log: %v", err)
		return
	}
	defer f.Close()

	for _, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			continue
		}
		fmt.Fprintln(f, string(data))
	}
}

// Snapshot returns a copy of the scheduler's bookkeeping
func (s *Scheduler) Snapshot() State {
	return s.state
}

func (s *Scheduler) logStatus() {
	log.Printf("[schedule] 📊 STATUS — generated: %d, uploads: %d, accumulated: %.0fs / %.0fs (%d clip(s) queued), next trigger: %s",
		s.state.GenerationCount,
		s.state.UploadCount,
		s.acc.AccumulatedSec(),
		s.acc.TargetSec(),
		s.acc.PendingCount(),
		s.state.NextTrigger.Format("15:04:05"))
}
