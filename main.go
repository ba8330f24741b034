package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/compile"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/generate"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/media"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/process"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/prompts"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/schedule"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/upload"
)

func main() {
	// Load .env (local dev only)
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, dir := range []string{
		cfg.Paths.Generated, cfg.Paths.Processed, cfg.Paths.Compiled,
		cfg.Paths.Thumbnails, cfg.Paths.Data, cfg.Paths.Logs,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	log.Printf("🎬 Automated YouTube Uploader starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	history, err := prompts.LoadHistory(cfg.Prompts.HistoryFile)
	if err != nil {
		log.Fatalf("Failed to load prompt history: %v", err)
	}
	trends := prompts.NewTrends()
	if cfg.Prompts.RefreshTrends {
		trends.Refresh(ctx, cfg.Prompts.TrendSubreddits)
	}
	promptGen := prompts.NewGenerator(history, trends, cfg.Prompts.LookbackDays, rng)

	gen, err := generate.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}
	processor := process.New(cfg)

	accumulator := compile.NewAccumulator(media.FFProbe{}, cfg.Compilation.TargetMinutes*60)
	thumbs := compile.NewThumbnailGenerator(cfg.Paths.Thumbnails)
	builder := compile.NewBuilder(cfg.Paths.Compiled, thumbs)
	titles := compile.NewTitleGenerator(rng)

	rotator := upload.NewRotator(upload.LoadAccounts(cfg.Upload.Accounts))
	uploader := upload.NewUploader(cfg)

	scheduler := schedule.New(cfg, gen, processor, accumulator, builder, titles,
		rotator, uploader, promptGen)
	scheduler.Run(ctx)

	log.Printf("✅ Shutdown complete")
}
