package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-daylight/internal/api"
	"github.com/nerrad567/gray-logic-daylight/internal/daemon"
	"github.com/nerrad567/gray-logic-daylight/internal/desktop"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/metrics"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/theme"
	_ "github.com/nerrad567/gray-logic-daylight/migrations"
)

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daylight daemon",
		Long: `Run the daemon: regenerate the wallpaper slideshow at startup, on
calendar-day change, theme edits and night-mode toggles, and switch the
desktop between light and dark themes around sunrise and sunset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), *configPath)
		},
	}
}

// runDaemon is the daemon lifecycle, separated from the command for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - configFlag: value of --config (may be empty)
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func runDaemon(ctx context.Context, configFlag string) error {
	cfg, log, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	log.Info("starting daylight",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Open database
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	collectors := metrics.New()

	planner, err := newPlanner(cfg, log)
	if err != nil {
		return err
	}
	planner.SetRecorder(collectors)

	deps := daemon.Deps{
		Planner:    planner,
		Repository: schedule.NewSQLiteRepository(db.DB),
		Writer:     newWriter(cfg),
		Recorder:   collectors,
		Logger:     log,
	}
	checks := map[string]api.HealthChecker{"database": db}

	if cfg.Daemon.ApplyDesktop {
		deps.Desktop = desktop.NewSettings(cfg.Daemon.GSettingsBinary, nil)
	} else {
		log.Info("desktop integration disabled")
	}

	// Connect to MQTT broker (optional)
	mqttClient, err := connectMQTT(cfg, log)
	if err != nil {
		return err
	}
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		deps.Publisher = mqttClient
		checks["mqtt"] = mqttClient
	}

	// Connect to InfluxDB (optional)
	influxClient, err := connectInfluxDB(cfg, log)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		deps.Telemetry = influxClient
		checks["influxdb"] = influxClient
	}

	svc := daemon.New(daemon.ConfigFrom(cfg), resolveLocation(ctx, cfg, log), deps)
	if restoreErr := svc.Restore(ctx); restoreErr != nil {
		log.Warn("could not restore previous schedule", "error", restoreErr)
	}

	if mqttClient != nil {
		if subErr := subscribeCommands(mqttClient, cfg, svc); subErr != nil {
			return subErr
		}
	}

	// Start HTTP API (optional)
	if cfg.API.Enabled {
		server, apiErr := startAPI(ctx, cfg, log, svc, deps.Repository, planner, collectors, checks)
		if apiErr != nil {
			return apiErr
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Run(gctx)
	})

	if cfg.Wallpaper.WatchThemes {
		watcher, watchErr := theme.NewWatcher(cfg.Wallpaper.ThemesDir, log)
		if watchErr != nil {
			log.Warn("theme watcher disabled", "dir", cfg.Wallpaper.ThemesDir, "error", watchErr)
		} else {
			g.Go(func() error {
				return watcher.Run(gctx, svc.ThemeChanged)
			})
		}
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("daylight stopped")
	return nil
}

// connectMQTT returns nil without error when MQTT is disabled.
func connectMQTT(cfg *config.Config, log *logging.Logger) (*mqtt.Client, error) {
	if !cfg.MQTT.Enabled {
		log.Info("MQTT disabled")
		return nil, nil
	}

	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	return client, nil
}

// connectInfluxDB returns nil without error when InfluxDB is disabled.
func connectInfluxDB(cfg *config.Config, log *logging.Logger) (*influxdb.Client, error) {
	if !cfg.InfluxDB.Enabled {
		log.Info("InfluxDB disabled")
		return nil, nil
	}

	client, err := influxdb.Connect(cfg.InfluxDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)
	return client, nil
}

// subscribeCommands routes the MQTT command topics to the daemon.
func subscribeCommands(client *mqtt.Client, cfg *config.Config, svc *daemon.Service) error {
	topics := mqtt.Topics{}
	qos := byte(cfg.MQTT.QoS) //nolint:gosec // QoS validated to 0-2 by config

	if err := client.Subscribe(topics.CommandNightMode(), qos, svc.HandleNightModeCommand); err != nil {
		return fmt.Errorf("subscribing to night-mode commands: %w", err)
	}
	if err := client.Subscribe(topics.CommandRegenerate(), qos, svc.HandleRegenerateCommand); err != nil {
		return fmt.Errorf("subscribing to regenerate commands: %w", err)
	}
	return nil
}

// startAPI creates and starts the HTTP API server.
func startAPI(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	svc *daemon.Service,
	runs schedule.Repository,
	planner *schedule.Planner,
	collectors *metrics.Metrics,
	checks map[string]api.HealthChecker,
) (*api.Server, error) {
	deps := api.Deps{
		Config:     cfg.API,
		Logger:     log,
		Daemon:     svc,
		Runs:       runs,
		Calculator: planner.Calculator(),
		Metrics:    collectors,
		Checks:     checks,
		Version:    version,
	}
	if cfg.Daemon.ApplyDesktop {
		deps.InstalledThemes = func() (desktop.Installed, error) {
			return desktop.ListInstalled(desktop.DefaultSearchPaths()), nil
		}
	}

	server, err := api.New(deps)
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting API server: %w", err)
	}
	return server, nil
}
