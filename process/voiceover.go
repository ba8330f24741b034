package process

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// VoiceoverGenerator synthesizes narration audio via an external TTS
// command. Set TTS_COMMAND to a binary/script accepting
// --text "..." --output path.mp3; falls back to edge-tts when unset.
type VoiceoverGenerator struct {
	outputDir string
}

// NewVoiceoverGenerator creates a generator writing audio into outputDir
func NewVoiceoverGenerator(outputDir string) *VoiceoverGenerator {
	return &VoiceoverGenerator{outputDir: outputDir}
}

// Generate synthesizes the text and returns the path to the audio file
func (v *VoiceoverGenerator) Generate(ctx context.Context, text string) (string, error) {
	ttsCmd := strings.TrimSpace(os.Getenv("TTS_COMMAND"))
	if ttsCmd == "" {
		if _, err := exec.LookPath("edge-tts"); err != nil {
			return "", fmt.Errorf("no TTS engine found: set TTS_COMMAND or install edge-tts")
		}
		ttsCmd = "edge-tts"
	}

	outFile := filepath.Join(v.outputDir,
		fmt.Sprintf("voiceover_%s.mp3", time.Now().Format("20060102_150405.000")))

	log.Printf("[process] Generating voiceover: %q", truncate(text, 60))

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = v.run(ctx, ttsCmd, text, outFile)
		if err == nil {
			return outFile, nil
		}
		log.Printf("[process] TTS attempt %d failed: %v — retrying...", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return "", err
}

func (v *VoiceoverGenerator) run(ctx context.Context, ttsCmd, text, outFile string) error {
	var cmd *exec.Cmd
	switch {
	case ttsCmd == "edge-tts":
		cmd = exec.CommandContext(ctx, "edge-tts",
			"--voice", "en-US-GuyNeural",
			"--text", text,
			"--write-media", outFile,
		)
	case strings.HasSuffix(ttsCmd, ".py"):
		cmd = exec.CommandContext(ctx, "python3", ttsCmd,
			"--text", text,
			"--output", outFile,
		)
	default:
		cmd = exec.CommandContext(ctx, ttsCmd,
			"--text", text,
			"--output", outFile,
		)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
