package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"shorts-publisher/channel"
	"shorts-publisher/config"
	"shorts-publisher/dupe"
	"shorts-publisher/pipeline"
	"shorts-publisher/publish"
)

var (
	configFile string
	filePath   string
	lang       string
	maxUploads int
)

var rootCmd = &cobra.Command{
	Use:   "shorts-publisher",
	Short: "Publish queued short videos to YouTube",
	Long: `shorts-publisher takes locally rendered videos from a per-channel intake
queue, validates them, suppresses duplicate titles, uploads them and files
each one into sent/, failed/ or dups/.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if lang == "" {
			return fmt.Errorf("--lang is required")
		}
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "config.yaml", "config file path")
	rootCmd.Flags().StringVar(&filePath, "file", "", "publish a single queued file instead of a batch")
	rootCmd.Flags().StringVar(&lang, "lang", "", "channel/language key (e.g. fr)")
	rootCmd.Flags().IntVar(&maxUploads, "max", 1, "batch mode: stop after this many successful publishes")
}

func run() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	runID := uuid.NewString()[:8]
	log.Printf("🎬 shorts-publisher starting — run %s, channel %s", runID, lang)

	creds, err := channel.ResolveCredentials(lang)
	if err != nil {
		return err
	}

	profile, err := channel.LoadProfile(cfg.Paths.VideosRoot, lang)
	if err != nil {
		return fmt.Errorf("load channel profile: %w", err)
	}

	svc, err := publish.NewService(ctx, creds)
	if err != nil {
		return err
	}

	// Best effort: a failed history fetch never blocks the run, the guard
	// just starts empty.
	guard := dupe.NewGuard()
	titles, err := dupe.FetchRecentTitles(ctx, svc, cfg.History.RecentTitles)
	if err != nil {
		log.Printf("⚠️  could not fetch recent titles: %v — duplicate guard starts empty", err)
	} else {
		guard.Seed(titles)
		log.Printf("[dupe] seeded %d recent title(s)", guard.Len())
	}

	runner := pipeline.NewRunner(cfg, lang, profile, guard, publish.New(&cfg.Upload, svc))

	if filePath != "" {
		return runner.RunOne(ctx, filePath)
	}
	return runner.RunBatch(ctx, maxUploads)
}

func main() {
	// Load .env for local development; deployed runs use real env vars.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
