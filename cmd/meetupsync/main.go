package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"meetupsync/internal/banner"
	"meetupsync/internal/config"
	"meetupsync/internal/extract"
	"meetupsync/internal/ics"
	appLog "meetupsync/internal/log"
	"meetupsync/internal/meetup"
	"meetupsync/internal/store"
)

// flagConfig holds CLI flag values; non-empty flags override the config
// file.
type flagConfig struct {
	configPath string
	calendar   string
	store      string
	cronSpec   string
	dryRun     bool
	verbose    bool
}

func main() {
	flags := parseFlags()

	level := appLog.LevelInfo
	if flags.verbose {
		level = appLog.LevelDebug
	}
	logger := appLog.New(os.Stderr, level)

	logger.Info("meetupsync starting", "version", "0.1.0-dev")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		logger.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	if flags.calendar != "" {
		conf.Calendar = flags.calendar
	}
	if flags.store != "" {
		conf.Store = flags.store
	}
	if flags.cronSpec != "" {
		conf.RefreshCron = flags.cronSpec
	}

	var loc *time.Location
	if conf.Timezone != "" {
		loc, err = time.LoadLocation(conf.Timezone)
		if err != nil {
			logger.Error("invalid timezone", err, "timezone", conf.Timezone)
			os.Exit(1)
		}
	}

	logger.Info("effective config",
		"calendar", conf.Calendar,
		"store", conf.Store,
		"timezone", conf.Timezone,
		"horizon_days", conf.HorizonDays,
		"refresh", conf.RefreshCron,
		"dry_run", flags.dryRun,
	)

	pipeline := buildPipeline(conf, loc, flags.dryRun, logger)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if conf.RefreshCron == "" {
		// Single import run, the default.
		if err := runOnce(ctx, pipeline, logger); err != nil {
			os.Exit(1)
		}
		logger.Info("meetupsync exiting")
		return
	}

	// Scheduled mode: one run immediately, then on every cron tick until
	// a signal stops us. A failed scheduled run is logged and the
	// schedule keeps going; it is not retried in between.
	_ = runOnce(ctx, pipeline, logger)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})))
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		_ = runOnce(ctx, pipeline, logger)
	}); err != nil {
		logger.Error("invalid refresh cron spec", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("meetupsync exiting")
}

func runOnce(ctx context.Context, p *meetup.Pipeline, logger *appLog.Logger) error {
	sum, err := p.Run(ctx)
	if err != nil {
		logger.Error("import failed", err)
		return err
	}
	logger.Info("import completed",
		"parsed", sum.Parsed,
		"expanded", sum.Expanded,
		"built", sum.Built,
		"added", sum.Added,
		"skipped", sum.Skipped,
	)
	return nil
}

func buildPipeline(conf *config.Config, loc *time.Location, dryRun bool, logger *appLog.Logger) *meetup.Pipeline {
	return &meetup.Pipeline{
		Source: ics.NewFeed(conf.Calendar, conf.CacheDir, logger),
		Builder: &meetup.Builder{
			Formatter: extract.DescriptionFormatter{
				Prefix: conf.OrgPrefix,
				Marker: conf.AboutMarker,
			},
			Banner:        banner.NewClient(),
			Location:      loc,
			DefaultBanner: conf.DefaultBanner,
			BannerAlt:     conf.BannerAlt,
			LinkTitle:     conf.LinkTitle,
			LinkTarget:    conf.LinkTarget,
		},
		Store:   store.New(conf.Store, logger),
		Horizon: time.Duration(conf.HorizonDays) * 24 * time.Hour,
		DryRun:  dryRun,
		Log:     logger,
	}
}

// cronLogger adapts the app logger to the cron scheduler's interface.
type cronLogger struct {
	log *appLog.Logger
}

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.log.Debug("cron: "+msg, kv...)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.log.Error("cron: "+msg, err, kv...)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "meetupsync.yaml", "Path to config file")
	flag.StringVar(&cfg.calendar, "calendar", "", "Calendar source: .ics path or http(s) URL (overrides config)")
	flag.StringVar(&cfg.store, "store", "", "Events JSON file (overrides config)")
	flag.StringVar(&cfg.cronSpec, "cron", "", "Cron schedule for repeated imports (overrides config refresh)")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Run the pipeline without writing the store")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
