package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/config"
	"github.com/Syed-Abubaker-Ahmed/Automated-Youtube-Uploader/types"
)

// ErrPublishFailed means one upload attempt failed. Isolated to its
// (artifact, identity) pair; never retried within the batch.
var ErrPublishFailed = errors.New("publish failed")

// Uploader publishes compilation artifacts to YouTube, one account at a time
type Uploader struct {
	cfg *config.Config
}

// NewUploader creates an Uploader
func NewUploader(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// UploadBatch publishes the artifact to every identity in the batch, in
// order, with the configured stagger delay between uploads. One result per
// identity, in batch order; failures are isolated per identity.
func (u *Uploader) UploadBatch(ctx context.Context, artifact *types.CompilationArtifact, batch []Identity, meta *types.VideoMetadata) []types.UploadResult {
	delay := time.Duration(u.cfg.Upload.StaggerDelaySec) * time.Second

	log.Printf("[upload] 📤 Uploading %s to %d account(s), %s apart...",
		artifact.ID, len(batch), delay)

	return RunBatch(ctx, batch, delay, func(ctx context.Context, id Identity) types.UploadResult {
		result := types.UploadResult{
			Account:    id.Name,
			ArtifactID: artifact.ID,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}

		videoID, err := u.Publish(ctx, artifact.Path, id, meta)
		if err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			log.Printf("[upload] ❌ %s: %v", id.Name, err)
			return result
		}

		result.Status = "success"
		result.VideoID = videoID
		log.Printf("[upload] ✅ %s: https://www.youtube.com/watch?v=%s", id.Name, videoID)
		return result
	})
}

// Publish uploads one video file under one identity and returns the
// external video ID
func (u *Uploader) Publish(ctx context.Context, videoFile string, id Identity, meta *types.VideoMetadata) (string, error) {
	svc, err := u.service(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrPublishFailed, id.Name, err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.PrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrPublishFailed, videoFile, err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] %s: file size %.1f MB", id.Name, float64(fi.Size())/1024/1024)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Context(ctx).Do()
	if err != nil {
		// Includes cancellation mid-transfer: recorded as failed, never success
		return "", fmt.Errorf("%w: %s: %v", ErrPublishFailed, id.Name, err)
	}

	if meta.ThumbnailPath != "" {
		if err := u.setThumbnail(ctx, svc, uploaded.Id, meta.ThumbnailPath); err != nil {
			log.Printf("[upload] Warning: thumbnail set failed for %s: %v", id.Name, err)
		}
	}

	return uploaded.Id, nil
}

func (u *Uploader) setThumbnail(ctx context.Context, svc *youtube.Service, videoID, thumbnailPath string) error {
	f, err := os.Open(thumbnailPath)
	if err != nil {
		return err
	}
	defer f.Close()

	call := svc.Thumbnails.Set(videoID)
	call.Media(f)
	_, err = call.Context(ctx).Do()
	return err
}

// service builds a YouTube client for one identity from its refresh token
func (u *Uploader) service(ctx context.Context, id Identity) (*youtube.Service, error) {
	conf := &oauth2.Config{
		ClientID:     id.ClientID,
		ClientSecret: id.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}

	token := &oauth2.Token{
		RefreshToken: id.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))
	return youtube.NewService(ctx, option.WithHTTPClient(client))
}
