package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/example/leitnerbot/internal/bot"
	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/logger"
	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/internal/scheduler"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CONFIG_PATH"), "path to a config file (yaml, toml or json)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Telegram.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	logCloser, err := logger.Setup(cfg.Logger, "leitnerbot")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid time zone: %v", err)
	}

	store, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to %s database", store.Driver())

	coordinator := review.NewCoordinator(store, review.Config{
		Location:   loc,
		PendingTTL: cfg.Review.PendingTTL,
	})

	api, err := bot.NewAPI(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	b := bot.New(api, coordinator, bot.Config{
		AdminUserIDs:    cfg.Telegram.AdminUserIDs,
		PollTimeout:     cfg.Telegram.PollTimeout,
		ReminderMessage: cfg.Reminder.Message,
	})

	schedCfg := scheduler.Config{Location: loc}
	if cfg.Reminder.Enabled {
		schedCfg.Cron = cfg.Reminder.Cron
	}
	var expirer scheduler.PendingExpirer
	if cfg.Review.PendingTTL > 0 {
		expirer = coordinator
		schedCfg.ExpiryInterval = cfg.Review.ExpiryInterval
	}
	sched := scheduler.New(scheduler.NewSweep(store, loc), b, expirer, schedCfg)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Bot error: %v", err)
		}
	}()

	sig := <-sigChan
	log.Printf("Received signal: %v", sig)
	cancel()
	sched.Stop()
	b.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		log.Println("Timed out waiting for the bot to stop")
	}
	log.Println("Bot stopped successfully")
}
