// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobhunt-crawler/internal/urlutil"
)

type Config struct {
	//Seeds: explicit listing URLs, or a keyword synthesized into a search URL
	SeedURLs   []string `yaml:"seed_urls"`
	Keyword    string   `yaml:"keyword"`
	BaseURL    string   `yaml:"base_url"`
	SearchPath string   `yaml:"search_path"` //printf-style, receives the keyword slug

	//Crawl bounds
	TargetCount    int  `yaml:"target_count"`
	MaxPages       int  `yaml:"max_pages"`
	CollectDetails bool `yaml:"collect_details"`
	Workers        int  `yaml:"workers"`
	RetryLimit     int  `yaml:"retry_limit"`

	//Politeness
	MinDelayMs int `yaml:"min_delay_ms"`
	MaxDelayMs int `yaml:"max_delay_ms"`

	//Filtering
	DateFilter string `yaml:"date_filter"` //all | 24hours | 7days | 30days

	//Fetching
	FetchStrategy    string `yaml:"fetch_strategy"` //http | colly | browser
	FetchTimeoutMs   int    `yaml:"fetch_timeout_ms"`
	LandmarkSelector string `yaml:"landmark_selector"`
	Proxy            string `yaml:"proxy" env:"PROXY_URL"`
	CookiesPath      string `yaml:"cookies_path"`

	//Outputs
	OutputJSON  string `yaml:"output_json"`
	OutputCSV   string `yaml:"output_csv"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	CachePath   string `yaml:"cache_path"`

	//Notifications (optional)
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if proxy := os.Getenv("PROXY_URL"); proxy != "" {
		cfg.Proxy = proxy
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}
	if keyword := os.Getenv("SEARCH_KEYWORD"); keyword != "" {
		cfg.Keyword = keyword
	}

	//Set default values if not set
	if cfg.TargetCount == 0 {
		cfg.TargetCount = 50
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 10
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.RetryLimit == 0 {
		cfg.RetryLimit = 2
	}
	if cfg.MinDelayMs == 0 {
		cfg.MinDelayMs = 500
	}
	if cfg.MaxDelayMs == 0 {
		cfg.MaxDelayMs = 2000
	}
	if cfg.FetchStrategy == "" {
		cfg.FetchStrategy = "http"
	}
	if cfg.FetchTimeoutMs == 0 {
		cfg.FetchTimeoutMs = 30000
	}
	if cfg.DateFilter == "" {
		cfg.DateFilter = "all"
	}
	if cfg.OutputJSON == "" && cfg.OutputCSV == "" {
		cfg.OutputJSON = "logs"
	}

	//Validate required fields
	if len(cfg.SeedURLs) == 0 && cfg.Keyword == "" {
		log.Fatal("No usable seed: set seed_urls or keyword in config.yaml")
	}
	if cfg.Keyword != "" && len(cfg.SeedURLs) == 0 && cfg.BaseURL == "" {
		log.Fatal("keyword requires base_url to synthesize a search URL")
	}
	if cfg.MaxDelayMs < cfg.MinDelayMs {
		log.Fatal("max_delay_ms must be >= min_delay_ms")
	}
	switch cfg.FetchStrategy {
	case "http", "colly", "browser":
	default:
		log.Fatalf("Unknown fetch_strategy: %q", cfg.FetchStrategy)
	}

	return cfg
}

// Seeds returns the configured listing URLs, synthesizing one from the
// keyword when no explicit seeds are set.
func (c *Config) Seeds() []string {
	if len(c.SeedURLs) > 0 {
		return c.SeedURLs
	}
	path := c.SearchPath
	if path == "" {
		path = "/jobs/search/%s"
	}
	seed := strings.TrimRight(c.BaseURL, "/") + fmt.Sprintf(path, urlutil.Slugify(c.Keyword))
	return []string{seed}
}
