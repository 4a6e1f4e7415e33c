package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobhunt-crawler/internal/config"
	"go-jobhunt-crawler/internal/crawler"
	"go-jobhunt-crawler/internal/dedup"
	"go-jobhunt-crawler/internal/fetch"
	"go-jobhunt-crawler/internal/filter"
	"go-jobhunt-crawler/internal/sink"
	"go-jobhunt-crawler/internal/telegram"
)

func main() {
	//load config
	cfg := config.Load()
	seeds := cfg.Seeds()
	log.Printf("🔧 Config loaded. Seeds: %v, target: %d, maxPages: %d", seeds, cfg.TargetCount, cfg.MaxPages)

	//setup context with timeout = 30 mins
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.Println("🚀 Starting job crawl...")

	//init fetch strategy
	fetcher, err := buildFetcher(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init fetcher (%s): %v", cfg.FetchStrategy, err)
	}
	defer fetcher.Close()

	//init optional telegram bot
	var bot *telegram.Bot
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
		}
		log.Println("🤖 Telegram Bot initialized.")
	}

	//assemble sinks
	sinks, cache := buildSinks(ctx, cfg, bot)
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Printf("⚠️ Failed to close sinks: %v", err)
		}
	}()

	//cross-run dedup seeds the visited set
	var knownURLs []string
	if cache != nil {
		knownURLs = cache.URLs()
	}

	driver := crawler.New(crawler.Options{
		Seeds:          seeds,
		TargetCount:    cfg.TargetCount,
		MaxPages:       cfg.MaxPages,
		CollectDetails: cfg.CollectDetails,
		MinDelay:       time.Duration(cfg.MinDelayMs) * time.Millisecond,
		MaxDelay:       time.Duration(cfg.MaxDelayMs) * time.Millisecond,
		Workers:        cfg.Workers,
		RetryLimit:     cfg.RetryLimit,
		DateFilter:     filter.ParseWindow(cfg.DateFilter),
		KnownURLs:      knownURLs,
	}, fetcher, sinks)

	summary, err := driver.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Crawl failed to start: %v", err)
	}

	//final accounting
	log.Printf("\n📦 Crawl finished in %s", summary.Duration.Round(time.Second))
	log.Printf("✅ Saved: %d records across %d listing pages", summary.Saved, summary.Listings)
	if len(summary.FailedURLs) > 0 {
		log.Printf("⚠️ Failed URLs (%d):", len(summary.FailedURLs))
		for _, u := range summary.FailedURLs {
			log.Printf("   - %s", u)
		}
	}

	if summary.Anomalous() {
		log.Printf("🚨 ANOMALY: zero records saved despite %d seed(s) — check selectors, blocks, or filters", len(seeds))
		if bot != nil {
			if err := bot.SendStatus(fmt.Sprintf("🚨 Crawl anomaly: 0 records saved, %d URLs failed.", len(summary.FailedURLs))); err != nil {
				log.Printf("⚠️ Failed to send anomaly status: %v", err)
			}
		}
	} else if bot != nil {
		status := fmt.Sprintf("✅ Crawl done: saved %d records, %d failures.", summary.Saved, len(summary.FailedURLs))
		if err := bot.SendStatus(status); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
}

func buildFetcher(cfg *config.Config) (fetch.Fetcher, error) {
	timeout := time.Duration(cfg.FetchTimeoutMs) * time.Millisecond
	switch cfg.FetchStrategy {
	case "colly":
		return fetch.NewCollyFetcher(cfg.Proxy, timeout), nil
	case "browser":
		return buildBrowserFetcher(cfg, timeout)
	default:
		return fetch.NewHTTPFetcher(cfg.Proxy, timeout, 2)
	}
}

func buildBrowserFetcher(cfg *config.Config, timeout time.Duration) (fetch.Fetcher, error) {
	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		loaded, err := fetch.LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", cfg.CookiesPath, err)
		} else {
			log.Printf("🍪 Loaded %d cookies", len(loaded))
			cookies = loaded
		}
	}
	return fetch.NewBrowserFetcher(cfg.LandmarkSelector, timeout, cfg.Proxy, cookies)
}

func buildSinks(ctx context.Context, cfg *config.Config, bot *telegram.Bot) (sink.Multi, *dedup.Cache) {
	var sinks sink.Multi

	if cfg.OutputJSON != "" {
		sinks = append(sinks, sink.NewJSONFile(cfg.OutputJSON))
	}
	if cfg.OutputCSV != "" {
		csvSink, err := sink.NewCSV(cfg.OutputCSV)
		if err != nil {
			log.Fatalf("❌ Failed to open CSV output %s: %v", cfg.OutputCSV, err)
		}
		sinks = append(sinks, csvSink)
	}
	if cfg.DatabaseURL != "" {
		pg, err := sink.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		sinks = append(sinks, pg)
		log.Println("🗄️ Postgres sink connected.")
	}
	if bot != nil {
		sinks = append(sinks, bot)
	}

	var cache *dedup.Cache
	if cfg.CachePath != "" {
		cache = dedup.NewCache(cfg.CachePath)
		sinks = append(sinks, cache)
	}

	return sinks, cache
}
