// Command rebuild-search drops the maps search index and rebuilds it from
// the database. It takes no arguments; connection settings come from the
// environment the same way as for the server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/paradb/paradb-api/internal/config"
	"github.com/paradb/paradb-api/internal/database"
	"github.com/paradb/paradb-api/internal/repository"
	"github.com/paradb/paradb-api/internal/search"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Failed to rebuild search index: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := database.Connect(cfg); err != nil {
		return err
	}
	defer database.Close()

	rebuilder := search.NewRebuilder(
		repository.NewMapRepository(database.GetDB()),
		search.NewMeiliEngine(cfg.MeiliHost, cfg.MeiliKey),
		os.Stdout,
	)
	return rebuilder.Rebuild(ctx)
}
