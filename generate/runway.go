package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// runwayGenerator submits a Gen-3 task and polls it until the clip is ready
type runwayGenerator struct {
	providerBase
	apiKey string
}

func (g *runwayGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: RUNWAY_API_KEY not set", ErrGenerationFailed)
	}

	log.Printf("[generate] Runway: %q", prompt)

	taskID, err := g.submit(ctx, prompt)
	if err != nil {
		return "", err
	}

	var videoURL string
	err = g.poll(ctx, func(ctx context.Context) (bool, error) {
		status, url, err := g.taskStatus(ctx, taskID)
		if err != nil {
			return false, err
		}
		switch status {
		case "SUCCEEDED":
			videoURL = url
			return true, nil
		case "FAILED":
			return false, fmt.Errorf("%w: runway task %s failed", ErrGenerationFailed, taskID)
		default:
			log.Printf("[generate] Task %s status: %s — waiting...", taskID, status)
			return false, nil
		}
	})
	if err != nil {
		return "", err
	}

	clip, err := g.download(ctx, videoURL, fmt.Sprintf("runway_%s.mp4", taskID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	log.Printf("[generate] ✅ Clip saved: %s", clip)
	return clip, nil
}

func (g *runwayGenerator) submit(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"prompt":       prompt,
		"model":        "gen3",
		"duration":     g.cfg.Generator.DurationSec,
		"aspect_ratio": g.cfg.Generator.AspectRatio,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.runwayml.com/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: runway request: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: runway HTTP %d", ErrGenerationFailed, resp.StatusCode)
	}

	var result struct {
		TaskID string `json:"taskId"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("%w: parse runway response: %v", ErrGenerationFailed, err)
	}
	if result.TaskID == "" {
		return "", fmt.Errorf("%w: runway returned no task ID", ErrGenerationFailed)
	}
	return result.TaskID, nil
}

func (g *runwayGenerator) taskStatus(ctx context.Context, taskID string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		"https://api.runwayml.com/v1/tasks/"+taskID, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: runway poll: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	var task struct {
		Status string `json:"status"`
		Output struct {
			Video string `json:"video"`
		} `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return "", "", fmt.Errorf("%w: parse runway task: %v", ErrGenerationFailed, err)
	}
	return task.Status, task.Output.Video, nil
}
