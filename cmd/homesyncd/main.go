package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wheelibin/homesync/internal/climate"
	"github.com/wheelibin/homesync/internal/commands"
	"github.com/wheelibin/homesync/internal/config"
	"github.com/wheelibin/homesync/internal/gateway"
	"github.com/wheelibin/homesync/internal/homesync"
	"github.com/wheelibin/homesync/internal/reconcile"
	"github.com/wheelibin/homesync/internal/repos"
	"github.com/wheelibin/homesync/internal/scheduler"
	"github.com/wheelibin/homesync/internal/store"
)

var logToFile bool
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "homesyncd",
	Short: "homesyncd keeps a local device snapshot in sync with the house gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	rootCmd.Flags().BoolVar(&logToFile, "log-to-file", false, "write rotated logs to logs/homesync.log instead of stderr")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	var logger *log.Logger
	if logToFile {
		logger = log.NewWithOptions(&lumberjack.Logger{
			Filename: "logs/homesync.log",
			MaxAge:   3,
		}, log.Options{
			Level:      level,
			TimeFormat: "2006/01/02 15:04:05",
		})
	} else {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           level,
			ReportTimestamp: true,
		})
	}
	logger.Info("homesyncd starting")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", cfg.CacheDBPath)
	if err != nil {
		return fmt.Errorf("error opening cache db: %w", err)
	}
	defer db.Close()

	snapshotRepo, err := repos.NewSnapshotRepo(logger, db)
	if err != nil {
		return err
	}
	groupRepo, err := repos.NewGroupRepo(logger, db)
	if err != nil {
		return err
	}

	// create/wire up services
	st := store.NewStore(logger, snapshotRepo)
	auth := gateway.NewKeyAuth(logger, cfg.GatewayAddress, cfg.GatewayAppKey)
	gw := gateway.NewGatewayService(logger, cfg.GatewayAddress, auth)
	fetcher := reconcile.NewFetcher(logger, gw, auth, st)
	commandService := commands.NewCommandService(logger, gw, st, fetcher)
	coordinator := climate.NewCoordinator(logger, st, commandService, cfg.AreaPriority)
	sched := scheduler.NewScheduler(logger, cfg.Poll, fetcher, coordinator)
	engine := homesync.NewEngine(logger, cfg, st, fetcher, sched, groupRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine.Run(ctx)

	logger.Info("homesyncd closing")
	return nil
}
