// Load .env, YAML config and env-var overrides, apply defaults, validate.

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Scraping struct {
	Headless             bool `yaml:"headless" envconfig:"SCRAPING_HEADLESS"`
	DelayBetweenRequests int  `yaml:"delay_between_requests" envconfig:"SCRAPING_DELAY_BETWEEN_REQUESTS"` // seconds
	MaxPostsPerSearch    int  `yaml:"max_posts_per_search" envconfig:"SCRAPING_MAX_POSTS_PER_SEARCH"`
	MaxTotalPosts        int  `yaml:"max_total_posts" envconfig:"SCRAPING_MAX_TOTAL_POSTS"`
	TimeoutMs            int  `yaml:"timeout_ms" envconfig:"SCRAPING_TIMEOUT_MS"`

	// Bounds for the randomized inter-action delays.
	MinActionDelayMs int `yaml:"min_action_delay_ms" envconfig:"SCRAPING_MIN_ACTION_DELAY_MS"`
	MaxActionDelayMs int `yaml:"max_action_delay_ms" envconfig:"SCRAPING_MAX_ACTION_DELAY_MS"`

	// KeepBrowserOpen leaves the window up after a run so the session
	// survives for manual reuse. Purely a UX choice.
	KeepBrowserOpen bool   `yaml:"keep_browser_open" envconfig:"SCRAPING_KEEP_BROWSER_OPEN"`
	UserDataDir     string `yaml:"user_data_dir" envconfig:"SCRAPING_USER_DATA_DIR"`
}

type Storage struct {
	CSVFile string `yaml:"csv_file" envconfig:"STORAGE_CSV_FILE"`
	DBFile  string `yaml:"db_file" envconfig:"STORAGE_DB_FILE"`
}

type Auth struct {
	Email    string `yaml:"-" envconfig:"LINKEDIN_EMAIL"`
	Password string `yaml:"-" envconfig:"LINKEDIN_PASSWORD"`
}

type Telegram struct {
	Token  string `yaml:"-" envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"-" envconfig:"TELEGRAM_CHAT_ID"`
}

type Scheduler struct {
	IntervalMinutes int `yaml:"interval_minutes" envconfig:"SCHEDULER_INTERVAL_MINUTES"`
}

type Config struct {
	Keywords  []string `yaml:"keywords"`
	Hashtags  []string `yaml:"hashtags"`
	DaysLimit int      `yaml:"days_limit" envconfig:"DAYS_LIMIT"`

	Scraping  Scraping  `yaml:"scraping"`
	Storage   Storage   `yaml:"storage"`
	Auth      Auth      `yaml:"auth"`
	Telegram  Telegram  `yaml:"telegram"`
	Scheduler Scheduler `yaml:"scheduler"`

	CookiesPath string `yaml:"cookies_path" envconfig:"COOKIES_PATH"`
	LogLevel    string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// Load reads .env (if present), the YAML file at path, then env overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Env vars win over the file.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DaysLimit == 0 {
		c.DaysLimit = 7
	}
	if c.Scraping.DelayBetweenRequests == 0 {
		c.Scraping.DelayBetweenRequests = 5
	}
	if c.Scraping.MaxPostsPerSearch == 0 {
		c.Scraping.MaxPostsPerSearch = 50
	}
	if c.Scraping.MaxTotalPosts == 0 {
		c.Scraping.MaxTotalPosts = 200
	}
	if c.Scraping.TimeoutMs == 0 {
		c.Scraping.TimeoutMs = 30000
	}
	if c.Scraping.MinActionDelayMs == 0 {
		c.Scraping.MinActionDelayMs = 500
	}
	if c.Scraping.MaxActionDelayMs == 0 {
		c.Scraping.MaxActionDelayMs = 2000
	}
	if c.Scraping.UserDataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Scraping.UserDataDir = home + "/.leadscout_browser"
	}
	if c.Storage.CSVFile == "" {
		c.Storage.CSVFile = "output.csv"
	}
	if c.Storage.DBFile == "" {
		c.Storage.DBFile = "output.db"
	}
	if c.CookiesPath == "" {
		c.CookiesPath = "cookies.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Scheduler.IntervalMinutes == 0 {
		c.Scheduler.IntervalMinutes = 360
	}
}

// Terms returns keywords and hashtags as one list, keywords first. This is
// both the scoring vocabulary and the search query order.
func (c *Config) Terms() []string {
	terms := make([]string, 0, len(c.Keywords)+len(c.Hashtags))
	terms = append(terms, c.Keywords...)
	terms = append(terms, c.Hashtags...)
	return terms
}

func (c *Config) Validate() error {
	if len(c.Keywords) == 0 && len(c.Hashtags) == 0 {
		return fmt.Errorf("config: at least one keyword or hashtag is required")
	}
	if c.DaysLimit < 0 {
		return fmt.Errorf("config: days_limit must be positive, got %d", c.DaysLimit)
	}
	if c.Scraping.MaxPostsPerSearch < 0 || c.Scraping.MaxTotalPosts < 0 {
		return fmt.Errorf("config: post caps must be positive")
	}
	if c.Scraping.MinActionDelayMs > c.Scraping.MaxActionDelayMs {
		return fmt.Errorf("config: min_action_delay_ms (%d) exceeds max_action_delay_ms (%d)",
			c.Scraping.MinActionDelayMs, c.Scraping.MaxActionDelayMs)
	}
	return nil
}
