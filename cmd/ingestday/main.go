// Command ingestday runs one schedule ingestion pass and exits. It is
// the manual counterpart of the cron-driven daily ingestion.
package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/rs/zerolog/log"

	"mlb_byte/scoreboard/internal/client"
	"mlb_byte/scoreboard/internal/config"
	"mlb_byte/scoreboard/internal/ingest"
	"mlb_byte/scoreboard/internal/repository"
)

func main() {
	override := flag.Bool("override", false, "re-ingest a day whose marker already exists")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Validate database connectivity before fetching anything
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	gd2Client := client.NewClient(cfg.ScheduleURLTemplate, cfg.UpstreamTimeout)
	svc := ingest.NewService(gd2Client, db.Days, db.Games,
		cfg.LinescoreURLTemplate, cfg.GamedayURLTemplate)

	result, err := svc.IngestDay(ctx, *override)
	if err != nil {
		log.Fatal().Err(err).Msg("Schedule ingestion failed")
	}

	if result.AlreadyIngested {
		log.Info().Msg("We already got this day's games")
		return
	}

	log.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("Schedule ingestion complete")
}
