package media

import (
	"fmt"
	"os/exec"
	"strings"
)

// FFProbe measures media durations with the ffprobe binary
type FFProbe struct{}

// Duration returns the duration of a media file in seconds
func (FFProbe) Duration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var dur float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	return dur, nil
}
