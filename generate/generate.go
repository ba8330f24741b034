package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
)

// ErrGenerationFailed means this cycle's clip could not be produced
// (provider error or poll timeout). Fatal for the attempt; the core never
// retries it.
var ErrGenerationFailed = errors.New("generation failed")

// Generator turns a text prompt into a clip file on disk
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New selects a provider from configuration. Unknown providers are a
// construction error, not a runtime branch.
func New(cfg *config.Config) (Generator, error) {
	client := &http.Client{Timeout: 5 * time.Minute}
	base := providerBase{
		cfg:        cfg,
		httpClient: client,
		outputDir:  cfg.Paths.Generated,
		sleep:      sleepCtx,
	}

	switch cfg.Generator.Provider {
	case "fal":
		return &falGenerator{providerBase: base, apiKey: os.Getenv("FAL_API_KEY")}, nil
	case "runway":
		return &runwayGenerator{providerBase: base, apiKey: os.Getenv("RUNWAY_API_KEY")}, nil
	case "replicate":
		return &replicateGenerator{providerBase: base, apiKey: os.Getenv("REPLICATE_API_KEY")}, nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Generator.Provider)
	}
}

// providerBase carries the pieces every provider shares
type providerBase struct {
	cfg        *config.Config
	httpClient *http.Client
	outputDir  string
	sleep      func(ctx context.Context, d time.Duration) error
}

// poll repeatedly calls check until it reports done, fails, or the
// configured timeout elapses. check returns (done, err).
func (p *providerBase) poll(ctx context.Context, check func(ctx context.Context) (bool, error)) error {
	interval := time.Duration(p.cfg.Generator.PollIntervalSec) * time.Second
	timeout := time.Duration(p.cfg.Generator.PollTimeoutSec) * time.Second
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := p.sleep(ctx, interval); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: poll timed out after %s", ErrGenerationFailed, timeout)
}

// download fetches the finished clip and saves it under the output dir
func (p *providerBase) download(ctx context.Context, url, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download clip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download clip: HTTP %d", resp.StatusCode)
	}

	outFile := filepath.Join(p.outputDir, filename)
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outFile)
		return "", fmt.Errorf("save clip: %w", err)
	}
	return outFile, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
