package prompts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
)

// History is the append-only prompt log: one JSON record per line. Read at
// cycle start to avoid repeating content, appended after a successful
// generation. Only the scheduler goroutine touches it.
type History struct {
	path    string
	records []types.PromptRecord
}

// LoadHistory reads the history file, tolerating a missing file and
// skipping unparsable lines
func LoadHistory(path string) (*History, error) {
	h := &History{path: path}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open prompt history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec types.PromptRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("[prompts] Warning: skipping bad history line: %v", err)
			continue
		}
		h.records = append(h.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompt history: %w", err)
	}

	log.Printf("[prompts] Loaded %d prompt(s) from history", len(h.records))
	return h, nil
}

// Append records a generated prompt in memory and on disk
func (h *History) Append(prompt string) error {
	rec := types.PromptRecord{
		Prompt:    prompt,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    "generated",
	}
	h.records = append(h.records, rec)

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open prompt history for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append prompt history: %w", err)
	}
	return nil
}

// IsUnique reports whether the prompt has not been used within the last
// lookbackDays, case-insensitively
func (h *History) IsUnique(prompt string, lookbackDays int) bool {
	cutoff := time.Now().AddDate(0, 0, -lookbackDays)
	needle := strings.ToLower(prompt)

	for _, rec := range h.records {
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err != nil || ts.Before(cutoff) {
			continue
		}
		if strings.ToLower(rec.Prompt) == needle {
			return false
		}
	}
	return true
}

// Len returns the number of recorded prompts
func (h *History) Len() int {
	return len(h.records)
}
