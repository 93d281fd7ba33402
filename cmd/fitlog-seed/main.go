package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/fitlog/internal/localcache"
	"github.com/claude/fitlog/internal/seed"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cacheDir := flag.String("cache-dir", "", "local cache directory to write the generated history into")
	months := flag.Int("months", 3, "months of history to generate")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "random seed (fixed seed gives reproducible output)")
	dryRun := flag.Bool("dry-run", false, "generate and summarize but don't write the cache")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitlog-seed", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *cacheDir == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Usage: fitlog-seed -cache-dir <dir> [-months N] [-seed N] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	sessions := seed.New(*randSeed).Generate(*months)
	stats := seed.Summarize(sessions)

	if *dryRun {
		log.Info("DRY RUN mode — history generated but not written")
	} else {
		cache, err := localcache.Open(*cacheDir)
		if err != nil {
			log.Error("failed to open cache", "dir", *cacheDir, "error", err)
			os.Exit(1)
		}
		defer cache.Close()

		if err := cache.SaveSessions(sessions); err != nil {
			log.Error("failed to write sessions", "error", err)
			os.Exit(1)
		}
		log.Info("history written", "dir", *cacheDir)
	}

	fmt.Println()
	fmt.Println("=== Seed Summary ===")
	fmt.Printf("  Workouts:   %d\n", stats.TotalWorkouts)
	fmt.Printf("  Exercises:  %d\n", stats.TotalExercises)
	fmt.Printf("  Date range: %s to %s\n", stats.From, stats.To)
	fmt.Println()
}
