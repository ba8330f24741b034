package types

// ClipRef points at one generated short clip on disk
type ClipRef struct {
	Path        string  `json:"path"`
	Prompt      string  `json:"prompt,omitempty"`
	DurationSec float64 `json:"duration_sec"`
}

// CompilationArtifact is one finished compilation ready for upload.
// Immutable once built; the next cycle produces a fresh one.
type CompilationArtifact struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	SourceClips  []ClipRef `json:"source_clips"`
	TotalSec     float64   `json:"total_sec"`
	Title        string    `json:"title"`
	ThumbnailRef string    `json:"thumbnail_ref"`
	CreatedAt    string    `json:"created_at"`
}

// VideoMetadata holds all YouTube upload metadata for one compilation
type VideoMetadata struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	CategoryID    string   `json:"category_id"`
	PrivacyStatus string   `json:"privacy_status"`
	ThumbnailPath string   `json:"thumbnail_path,omitempty"`
}

// UploadResult records one (artifact, account) upload attempt
type UploadResult struct {
	Account    string `json:"account"`
	ArtifactID string `json:"artifact_id"`
	VideoID    string `json:"video_id,omitempty"`
	Status     string `json:"status"` // success | failed
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// PromptRecord is one line of the append-only prompt history log
type PromptRecord struct {
	Prompt    string `json:"prompt"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}
