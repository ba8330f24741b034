package process

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
)

// Processor formats a raw generated clip for YouTube Shorts: 9:16 resize,
// caption overlay, narration and background music. Caption and music
// failures degrade silently; a resize failure is fatal for the clip.
type Processor struct {
	cfg       *config.Config
	voiceover *VoiceoverGenerator
}

// New creates a Processor
func New(cfg *config.Config) *Processor {
	return &Processor{
		cfg:       cfg,
		voiceover: NewVoiceoverGenerator(cfg.Paths.Processed),
	}
}

// Process runs the full post-processing chain and returns the path to the
// processed clip
func (p *Processor) Process(ctx context.Context, inputVideo, prompt string) (string, error) {
	log.Printf("[process] Processing clip: %s", inputVideo)

	current, err := p.resize(ctx, inputVideo)
	if err != nil {
		return "", fmt.Errorf("resize: %w", err)
	}

	if p.cfg.Processing.AddCaptions {
		captioned, err := p.addCaption(ctx, current)
		if err != nil {
			log.Printf("[process] Warning: caption overlay failed: %v — continuing without captions", err)
		} else {
			current = captioned
		}
	}

	if p.cfg.Processing.AddVoiceover && prompt != "" {
		narrated, err := p.addNarration(ctx, current, prompt)
		if err != nil {
			log.Printf("[process] Warning: narration failed: %v — continuing without voiceover", err)
		} else {
			current = narrated
		}
	} else if p.cfg.Processing.AddMusic {
		withMusic, err := p.addMusicOnly(ctx, current)
		if err != nil {
			log.Printf("[process] Warning: music mix failed: %v — continuing without music", err)
		} else {
			current = withMusic
		}
	}

	log.Printf("[process] ✅ Clip processed: %s", current)
	return current, nil
}

// resize crops wider clips and pads taller ones to the target 9:16 frame
func (p *Processor) resize(ctx context.Context, inputVideo string) (string, error) {
	w, h := p.cfg.Processing.Width, p.cfg.Processing.Height
	outFile := p.outPath("resized")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inputVideo,
		"-vf", fmt.Sprintf(
			"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1",
			w, h, w, h),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-c:a", "copy",
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg resize: %w", err)
	}
	return outFile, nil
}

// addCaption burns the "AI Generated" marker near the bottom of the frame
func (p *Processor) addCaption(ctx context.Context, inputVideo string) (string, error) {
	outFile := p.outPath("captioned")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inputVideo,
		"-vf", "drawtext=text='AI Generated':fontcolor=white@0.8:fontsize=40:x=(w-text_w)/2:y=h-text_h-60",
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-c:a", "copy",
		outFile,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg drawtext: %w", err)
	}
	return outFile, nil
}

// addNarration generates TTS for the prompt and mixes it over the clip,
// with background music under the voice when configured
func (p *Processor) addNarration(ctx context.Context, inputVideo, prompt string) (string, error) {
	narration := fmt.Sprintf("%s. Enjoy this cute moment!", prompt)
	voiceFile, err := p.voiceover.Generate(ctx, narration)
	if err != nil {
		return "", err
	}

	outFile := p.outPath("narrated")
	musicFile := p.findMusic()

	var cmd *exec.Cmd
	if p.cfg.Processing.AddMusic && musicFile != "" {
		cmd = exec.CommandContext(ctx, "ffmpeg", "-y",
			"-i", inputVideo,
			"-i", voiceFile,
			"-i", musicFile,
			"-filter_complex", fmt.Sprintf(
				"[1:a]volume=1.0[voice];[2:a]volume=%.2f[music];[voice][music]amix=inputs=2:duration=first:normalize=0[a]",
				p.cfg.Processing.MusicVolume),
			"-map", "0:v",
			"-map", "[a]",
			"-c:v", "copy",
			"-c:a", "aac",
			"-shortest",
			outFile,
		)
	} else {
		cmd = exec.CommandContext(ctx, "ffmpeg", "-y",
			"-i", inputVideo,
			"-i", voiceFile,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-c:v", "copy",
			"-c:a", "aac",
			"-shortest",
			outFile,
		)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg narration mix: %w", err)
	}
	return outFile, nil
}

// addMusicOnly lays background music under the clip's own audio
func (p *Processor) addMusicOnly(ctx context.Context, inputVideo string) (string, error) {
	musicFile := p.findMusic()
	if musicFile == "" {
		return "", fmt.Errorf("no music files in %s", p.cfg.Processing.MusicDir)
	}

	outFile := p.outPath("music")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inputVideo,
		"-stream_loop", "-1",
		"-i", musicFile,
		"-filter_complex", fmt.Sprintf("[1:a]volume=%.2f[music]", p.cfg.Processing.MusicVolume),
		"-map", "0:v",
		"-map", "[music]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		outFile,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg music mix: %w", err)
	}
	return outFile, nil
}

func (p *Processor) findMusic() string {
	matches, _ := filepath.Glob(filepath.Join(p.cfg.Processing.MusicDir, "*.mp3"))
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func (p *Processor) outPath(stage string) string {
	return filepath.Join(p.cfg.Paths.Processed,
		fmt.Sprintf("%s_%s.mp4", stage, time.Now().Format("20060102_150405.000")))
}
