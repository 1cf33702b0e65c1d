// Daylight - solar-timed wallpaper slideshows and light/dark desktop theming.
//
// This is the main entry point for the daylight daemon and its one-shot tools:
//   - run: the long-running daemon (wallpaper schedule, appearance loop, API)
//   - generate: write one wallpaper slideshow and exit
//   - solar: print the solar instants for a location and date
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-daylight/internal/geo"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/solar"
	"github.com/nerrad567/gray-logic-daylight/internal/wallpaper"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

const (
	// defaultConfigPath is used when neither --config nor DAYLIGHT_CONFIG is set.
	defaultConfigPath = "configs/config.yaml"

	generatorName = "daylight"
	projectURL    = "https://github.com/nerrad567/gray-logic-daylight"
)

func main() {
	// Cancel on Ctrl+C and SIGTERM for a graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "daylight",
		Short:         "Solar-timed wallpaper slideshows and light/dark desktop theming",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"configuration file (default $DAYLIGHT_CONFIG or "+defaultConfigPath+")")

	root.AddCommand(
		newRunCmd(&configPath),
		newGenerateCmd(&configPath),
		newSolarCmd(&configPath),
	)
	return root
}

// getConfigPath returns the configuration file path.
// The --config flag wins over DAYLIGHT_CONFIG, which wins over the default.
func getConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv("DAYLIGHT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig reads the configuration and builds the configured logger.
func loadConfig(flag string) (*config.Config, *logging.Logger, error) {
	path := getConfigPath(flag)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Debug("configuration loaded", "path", path)
	return cfg, log, nil
}

// resolveLocation returns the coordinates used for solar calculations:
// the IP geolocation result when enabled (falling back to 0,0), otherwise
// site.location.
func resolveLocation(ctx context.Context, cfg *config.Config, log *logging.Logger) geo.Coordinates {
	var provider geo.Provider = geo.Static{
		Latitude:  cfg.Site.Location.Latitude,
		Longitude: cfg.Site.Location.Longitude,
	}
	if cfg.Geolocation.Enabled {
		provider = geo.NewHTTPProvider(cfg.Geolocation.URL, cfg.Geolocation.Timeout)
	}
	loc, _ := geo.Resolve(ctx, provider, log)
	return loc
}

// newPlanner creates a planner using the configured hour-angle formula.
func newPlanner(cfg *config.Config, log *logging.Logger) (*schedule.Planner, error) {
	mode, err := solar.ParseMode(cfg.Solar.HourAngle)
	if err != nil {
		return nil, err
	}
	return schedule.NewPlanner(solar.Calculator{Mode: mode}, log), nil
}

// newWriter creates the slideshow writer for the configured output directory.
func newWriter(cfg *config.Config) *wallpaper.Writer {
	return &wallpaper.Writer{
		Dir:  cfg.Wallpaper.OutputDir,
		Name: generatorName,
		Header: wallpaper.Header{
			Generator: generatorName,
			Version:   version,
			URL:       projectURL,
		},
	}
}
