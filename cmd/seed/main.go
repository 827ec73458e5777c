// Command main runs the demo data seeder for PromptVault.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"promptvault/internal/config"
	"promptvault/internal/database"
	"promptvault/internal/middleware"
	"promptvault/internal/seed"
)

func main() {
	preset := flag.String("preset", "demo", "Preset from the embedded catalog")
	users := flag.Int("users", 0, "Override the preset's user count")
	prompts := flag.Int("prompts", 0, "Override the preset's prompt count")
	shouldClean := flag.Bool("clean", false, "Delete all application data before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible content (0 = time based)")
	list := flag.Bool("list", false, "List available presets and exit")
	flag.Parse()

	if err := run(*preset, *users, *prompts, *shouldClean, *randSeed, *list); err != nil {
		middleware.Logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(presetName string, users, prompts int, clean bool, randSeed int64, list bool) error {
	if list {
		catalog, err := seed.LoadCatalog()
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(catalog.PresetNames(), "\n"))
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed a %s database", cfg.Env)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()

	ctx := context.Background()
	s, err := seed.NewSeeder(db, seed.Options{Seed: randSeed})
	if err != nil {
		return err
	}

	if clean {
		if err := s.ClearAll(ctx); err != nil {
			return err
		}
	}

	p, err := s.Catalog().Preset(presetName)
	if err != nil {
		return err
	}
	if users > 0 {
		p.Users = users
	}
	if prompts > 0 {
		p.Prompts = prompts
	}

	if _, err := s.Run(ctx, p); err != nil {
		return err
	}
	middleware.Logger.Info("all seeded accounts share one password", slog.String("password", seed.DefaultPassword))
	return nil
}
