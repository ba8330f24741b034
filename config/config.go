package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Generator   GeneratorConfig   `yaml:"generator"`
	Prompts     PromptsConfig     `yaml:"prompts"`
	Processing  ProcessingConfig  `yaml:"processing"`
	Compilation CompilationConfig `yaml:"compilation"`
	Upload      UploadConfig      `yaml:"upload"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Paths       PathsConfig       `yaml:"paths"`
}

type GeneratorConfig struct {
	Provider        string `yaml:"provider"` // fal | runway | replicate
	DurationSec     int    `yaml:"duration_sec"`
	AspectRatio     string `yaml:"aspect_ratio"`
	PollIntervalSec int    `yaml:"poll_interval_sec"`
	PollTimeoutSec  int    `yaml:"poll_timeout_sec"`
}

type PromptsConfig struct {
	HistoryFile     string   `yaml:"history_file"`
	LookbackDays    int      `yaml:"lookback_days"`
	TrendSubreddits []string `yaml:"trend_subreddits"`
	RefreshTrends   bool     `yaml:"refresh_trends"`
}

type ProcessingConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	AddCaptions  bool    `yaml:"add_captions"`
	AddVoiceover bool    `yaml:"add_voiceover"`
	AddMusic     bool    `yaml:"add_music"`
	MusicDir     string  `yaml:"music_dir"`
	MusicVolume  float64 `yaml:"music_volume"`
}

type CompilationConfig struct {
	TargetMinutes float64 `yaml:"target_minutes"`
}

// Account is one publishing identity. CredentialsFile points at a JSON file
// holding client_id / client_secret / refresh_token.
type Account struct {
	Name            string `yaml:"name"`
	CredentialsFile string `yaml:"credentials_file"`
}

type UploadConfig struct {
	Accounts            []Account `yaml:"accounts"`
	PrivacyStatus       string    `yaml:"privacy_status"`
	CategoryID          string    `yaml:"category_id"`
	DescriptionTemplate string    `yaml:"description_template"`
	Tags                []string  `yaml:"tags"`
	StaggerDelaySec     int       `yaml:"stagger_delay_sec"`
}

type ScheduleConfig struct {
	UploadIntervalMin int  `yaml:"upload_interval_min"`
	TickSec           int  `yaml:"tick_sec"`
	StatusIntervalMin int  `yaml:"status_interval_min"`
	RunOnStartup      bool `yaml:"run_on_startup"`
}

type PathsConfig struct {
	Generated  string `yaml:"generated"`
	Processed  string `yaml:"processed"`
	Compiled   string `yaml:"compiled"`
	Thumbnails string `yaml:"thumbnails"`
	Data       string `yaml:"data"`
	Logs       string `yaml:"logs"`
}

// Load reads config.yaml and returns a Config struct with defaults applied
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Generator.Provider == "" {
		c.Generator.Provider = "fal"
	}
	if c.Generator.DurationSec == 0 {
		c.Generator.DurationSec = 30
	}
	if c.Generator.AspectRatio == "" {
		c.Generator.AspectRatio = "9:16"
	}
	if c.Generator.PollIntervalSec == 0 {
		c.Generator.PollIntervalSec = 10
	}
	if c.Generator.PollTimeoutSec == 0 {
		c.Generator.PollTimeoutSec = 600
	}
	if c.Prompts.LookbackDays == 0 {
		c.Prompts.LookbackDays = 30
	}
	if c.Processing.Width == 0 {
		c.Processing.Width = 1080
	}
	if c.Processing.Height == 0 {
		c.Processing.Height = 1920
	}
	if c.Processing.MusicVolume == 0 {
		c.Processing.MusicVolume = 0.3
	}
	if c.Compilation.TargetMinutes == 0 {
		c.Compilation.TargetMinutes = 10
	}
	if c.Upload.StaggerDelaySec == 0 {
		c.Upload.StaggerDelaySec = 900
	}
	if c.Upload.PrivacyStatus == "" {
		c.Upload.PrivacyStatus = "public"
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "15" // Pets & Animals
	}
	if c.Schedule.UploadIntervalMin == 0 {
		c.Schedule.UploadIntervalMin = 15
	}
	if c.Schedule.TickSec == 0 {
		c.Schedule.TickSec = 10
	}
	if c.Schedule.StatusIntervalMin == 0 {
		c.Schedule.StatusIntervalMin = 30
	}
}

func (c *Config) validate() error {
	switch c.Generator.Provider {
	case "fal", "runway", "replicate":
	default:
		return fmt.Errorf("unknown generator provider %q", c.Generator.Provider)
	}
	if c.Compilation.TargetMinutes <= 0 {
		return fmt.Errorf("compilation target_minutes must be positive")
	}
	return nil
}
