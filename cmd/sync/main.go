package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/sourcegraph/conc"

	"github.com/pickemhq/schedule-sync/internal/app"
	"github.com/pickemhq/schedule-sync/internal/config"
	"github.com/pickemhq/schedule-sync/internal/observability"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)

	runErr := run(runCtx, a, os.Args[1:], logger)

	cancel()
	stop()
	_ = a.Close()

	// Flush observability sinks concurrently before exiting.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	var wg conc.WaitGroup
	wg.Go(func() {
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	})
	wg.Go(func() {
		if err := stopPyroscope(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	})
	wg.Wait()
	shutdownCancel()

	if runErr != nil {
		logger.Error("sync run failed", "error", runErr)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, args []string, logger *logging.Logger) error {
	command := strings.ToLower(strings.TrimSpace(args[0]))
	switch command {
	case "seasons":
		return a.SeasonSync.SyncSeasons(ctx)
	case "teams":
		return a.TeamSync.SyncTeams(ctx)
	case "all":
		if err := a.SeasonSync.SyncSeasons(ctx); err != nil {
			return err
		}
		return a.TeamSync.SyncTeams(ctx)
	case "reseed":
		if len(args) < 2 {
			return fmt.Errorf("reseed requires a season id argument")
		}
		_, err := a.PhaseReseed.ReseedSeason(ctx, strings.TrimSpace(args[1]))
		return err
	case "reseed-all":
		report, err := a.PhaseReseed.ReseedAll(ctx)
		if err != nil {
			return err
		}
		if report.SeasonsFailed > 0 {
			return fmt.Errorf("reseed finished with %d failed season(s)", report.SeasonsFailed)
		}
		logger.Info("reseed complete",
			"seasons_processed", report.SeasonsProcessed,
			"phases_updated", report.PhasesUpdated,
		)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	name := "sync"
	fmt.Fprintf(os.Stderr, "usage: %s <seasons|teams|all|reseed <season-id>|reseed-all>\n", name)
}
