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

// replicateGenerator submits a prediction and polls its get URL until the
// clip is ready
type replicateGenerator struct {
	providerBase
	apiKey string
}

func (g *replicateGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: REPLICATE_API_KEY not set", ErrGenerationFailed)
	}

	log.Printf("[generate] Replicate: %q", prompt)

	predictionID, getURL, err := g.submit(ctx, prompt)
	if err != nil {
		return "", err
	}

	var videoURL string
	err = g.poll(ctx, func(ctx context.Context) (bool, error) {
		status, url, err := g.predictionStatus(ctx, getURL)
		if err != nil {
			return false, err
		}
		switch status {
		case "succeeded":
			videoURL = url
			return true, nil
		case "failed", "canceled":
			return false, fmt.Errorf("%w: replicate prediction %s %s", ErrGenerationFailed, predictionID, status)
		default:
			log.Printf("[generate] Prediction %s status: %s — waiting...", predictionID, status)
			return false, nil
		}
	})
	if err != nil {
		return "", err
	}

	clip, err := g.download(ctx, videoURL, fmt.Sprintf("replicate_%s.mp4", predictionID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	log.Printf("[generate] ✅ Clip saved: %s", clip)
	return clip, nil
}

func (g *replicateGenerator) submit(ctx context.Context, prompt string) (string, string, error) {
	payload := map[string]interface{}{
		"version": "text-to-video",
		"input": map[string]interface{}{
			"prompt":   prompt,
			"duration": g.cfg.Generator.DurationSec,
		},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.replicate.com/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Authorization", "Token "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: replicate request: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("%w: replicate HTTP %d", ErrGenerationFailed, resp.StatusCode)
	}

	var result struct {
		ID   string `json:"id"`
		URLs struct {
			Get string `json:"get"`
		} `json:"urls"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", "", fmt.Errorf("%w: parse replicate response: %v", ErrGenerationFailed, err)
	}
	if result.URLs.Get == "" {
		return "", "", fmt.Errorf("%w: replicate returned no prediction URL", ErrGenerationFailed)
	}
	return result.ID, result.URLs.Get, nil
}

func (g *replicateGenerator) predictionStatus(ctx context.Context, getURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", getURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Authorization", "Token "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: replicate poll: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	var prediction struct {
		Status string   `json:"status"`
		Output []string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return "", "", fmt.Errorf("%w: parse replicate prediction: %v", ErrGenerationFailed, err)
	}

	var url string
	if len(prediction.Output) > 0 {
		url = prediction.Output[0]
	}
	return prediction.Status, url, nil
}
