package compile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
)

// ErrCompilationFailed means concatenation of the drained clips failed.
// The drained clips are not restored: re-queuing a clip that always fails
// would grow the queue without bound, so lost work is logged instead.
var ErrCompilationFailed = errors.New("compilation failed")

// Builder concatenates accumulated clips into one compilation artifact
type Builder struct {
	outputDir string
	thumbs    *ThumbnailGenerator
}

// NewBuilder creates a Builder writing compilations into outputDir
func NewBuilder(outputDir string, thumbs *ThumbnailGenerator) *Builder {
	return &Builder{outputDir: outputDir, thumbs: thumbs}
}

// Build drains the accumulator and concatenates the clips, in arrival order,
// into one artifact with a JSON metadata sidecar and a thumbnail. Returns
// (nil, nil) when the accumulator is not ready; nothing is drained in that
// case.
func (b *Builder) Build(ctx context.Context, acc *Accumulator, title string) (*types.CompilationArtifact, error) {
	if !acc.IsReady() {
		log.Printf("[compile] Not enough content yet: %.1fs / %.1fs",
			acc.AccumulatedSec(), acc.TargetSec())
		return nil, nil
	}

	clips, total := acc.Drain()
	if len(clips) == 0 {
		return nil, nil
	}

	log.Printf("[compile] Building compilation from %d clips (%.1fs)...", len(clips), total)

	id := uuid.NewString()[:8]
	outFile := filepath.Join(b.outputDir, fmt.Sprintf("compilation_%s_%s.mp4",
		time.Now().Format("20060102_150405"), id))

	if err := b.concatenate(ctx, clips, outFile); err != nil {
		log.Printf("[compile] ❌ Compilation failed, %d clips lost: %v", len(clips), err)
		return nil, fmt.Errorf("%w: %v", ErrCompilationFailed, err)
	}

	artifact := &types.CompilationArtifact{
		ID:          id,
		Path:        outFile,
		SourceClips: clips,
		TotalSec:    total,
		Title:       title,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	artifact.ThumbnailRef = b.thumbs.Generate(ctx, artifact)

	b.saveSidecar(artifact)

	log.Printf("[compile] ✅ Compilation ready: %s (%.1fs)", outFile, total)
	return artifact, nil
}

// concatenate joins the clips with the ffmpeg concat demuxer, re-encoding so
// clips from different providers mux cleanly
func (b *Builder) concatenate(ctx context.Context, clips []types.ClipRef, outFile string) error {
	listFile := outFile + ".concat.txt"
	var lines []string
	for _, clip := range clips {
		lines = append(lines, fmt.Sprintf("file '%s'", clip.Path))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return err
	}
	defer os.Remove(listFile)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

// saveSidecar writes the compilation metadata JSON next to the artifact
func (b *Builder) saveSidecar(artifact *types.CompilationArtifact) {
	path := strings.TrimSuffix(artifact.Path, filepath.Ext(artifact.Path)) + ".json"
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		log.Printf("[compile] Warning: could not marshal sidecar for %s: %v", artifact.Path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("[compile] Warning: could not save sidecar %s: %v", path, err)
	}
}
