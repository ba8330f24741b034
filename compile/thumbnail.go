package compile

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
)

const (
	thumbWidth  = 1280
	thumbHeight = 720

	// frameAtSec is where the frame for the primary thumbnail is taken
	frameAtSec = 5.0
)

// ThumbnailGenerator produces a thumbnail for each compilation.
// Primary path extracts a frame from the artifact; the synthetic text
// thumbnail is the guaranteed fallback with no external dependency.
type ThumbnailGenerator struct {
	outputDir string
}

// NewThumbnailGenerator creates a generator writing into outputDir
func NewThumbnailGenerator(outputDir string) *ThumbnailGenerator {
	return &ThumbnailGenerator{outputDir: outputDir}
}

// Generate runs the fallback chain and returns the thumbnail path, or ""
// only if even the synthetic image could not be written to disk.
func (t *ThumbnailGenerator) Generate(ctx context.Context, artifact *types.CompilationArtifact) string {
	if artifact.TotalSec >= frameAtSec {
		path, err := t.fromVideo(ctx, artifact.Path)
		if err == nil {
			log.Printf("[thumbnail] ✅ Frame thumbnail: %s", path)
			return path
		}
		log.Printf("[thumbnail] Frame extraction failed: %v — using synthetic thumbnail", err)
	}

	path, err := t.Synthetic(artifact.Title)
	if err != nil {
		log.Printf("[thumbnail] Warning: synthetic thumbnail failed: %v", err)
		return ""
	}
	log.Printf("[thumbnail] ✅ Synthetic thumbnail: %s", path)
	return path
}

// fromVideo extracts one frame at the 5-second mark, scaled to 1280x720
func (t *ThumbnailGenerator) fromVideo(ctx context.Context, videoPath string) (string, error) {
	outFile := t.outPath("thumbnail")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-ss", fmt.Sprintf("%.1f", frameAtSec),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			thumbWidth, thumbHeight, thumbWidth, thumbHeight),
		"-q:v", "2",
		outFile,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg frame extract: %w", err)
	}
	if fi, err := os.Stat(outFile); err != nil || fi.Size() == 0 {
		return "", fmt.Errorf("frame extract produced no output")
	}
	return outFile, nil
}

// Synthetic renders the title as centered text on a dark 1280x720 canvas
func (t *ThumbnailGenerator) Synthetic(title string) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{16, 16, 24, 255}), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lines := wrapTitle(title, 50)
	lineHeight := face.Metrics().Height.Ceil() + 8
	startY := (thumbHeight - lineHeight*len(lines)) / 2

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for i, line := range lines {
		width := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.P((thumbWidth-width)/2, startY+lineHeight*(i+1))
		drawer.DrawString(line)
	}

	outFile := t.outPath("thumbnail_custom")
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		return "", err
	}
	return outFile, nil
}

func (t *ThumbnailGenerator) outPath(prefix string) string {
	return filepath.Join(t.outputDir,
		fmt.Sprintf("%s_%s.jpg", prefix, time.Now().Format("20060102_150405")))
}

// wrapTitle splits the title into at most 3 lines of roughly charLimit chars
func wrapTitle(title string, charLimit int) []string {
	if len(title) <= charLimit {
		return []string{title}
	}

	var lines []string
	var current []string
	for _, word := range strings.Fields(title) {
		test := strings.Join(append(current, word), " ")
		if len(test) > charLimit && len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
		} else {
			current = append(current, word)
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	if len(lines) > 3 {
		lines = lines[:3]
	}
	return lines
}
