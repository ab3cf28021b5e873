package main

import (
	"context"
	"flag"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logger"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	h, err := db.Open(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer h.Close()

	if !*apply {
		files, err := h.MigrationFiles()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range files {
			fmt.Println(name)
		}
		return
	}

	if err := h.Migrate(ctx); err != nil {
		logger.Fatal("migrate", "error", err)
	}
	fmt.Printf("migrations applied (%s)\n", cfg.DBDriver)
}
