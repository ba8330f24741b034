package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// falGenerator calls the FAL.ai text-to-video endpoint. FAL responds
// synchronously with a URL to the finished clip.
type falGenerator struct {
	providerBase
	apiKey string
}

func (g *falGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: FAL_API_KEY not set", ErrGenerationFailed)
	}

	log.Printf("[generate] FAL.ai: %q", prompt)

	payload := map[string]interface{}{
		"prompt":       prompt,
		"duration":     g.cfg.Generator.DurationSec,
		"aspect_ratio": g.cfg.Generator.AspectRatio,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.fal.ai/v1/text-to-video", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Authorization", "Key "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fal request: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fal HTTP %d", ErrGenerationFailed, resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("%w: parse fal response: %v", ErrGenerationFailed, err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("%w: fal returned no video URL", ErrGenerationFailed)
	}

	clip, err := g.download(ctx, result.URL, fmt.Sprintf("fal_%d.mp4", time.Now().Unix()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	log.Printf("[generate] ✅ Clip saved: %s", clip)
	return clip, nil
}
