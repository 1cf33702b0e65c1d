package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-daylight/internal/desktop"
	"github.com/nerrad567/gray-logic-daylight/internal/geo"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/solar"
	"github.com/nerrad567/gray-logic-daylight/internal/theme"
	"github.com/nerrad567/gray-logic-daylight/internal/wallpaper"
)

// dateLayout is the format of --date flags.
const dateLayout = "2006-01-02"

type generateOptions struct {
	theme        string
	outputDir    string
	date         string
	nightMode    bool
	setWallpaper bool
}

// solarDate returns the moment instants are computed for on the clock of
// override: noon of value when given, otherwise now.
func solarDate(value string, override *float64) (time.Time, error) {
	now := geo.LocalTime(override, time.Now())
	if value == "" {
		return now, nil
	}
	day, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --date: %w", err)
	}
	return solar.NoonOf(day), nil
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one wallpaper slideshow and exit",
		Long: `Compute today's solar schedule for the configured theme, write it as a
GNOME background slideshow and print the file path.

Examples:
  # Generate with the configured theme
  daylight generate

  # Preview another theme for a given date in night-mode
  daylight generate --theme mountains --date 2026-12-21 --night-mode --output /tmp/preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), *configPath, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme name (default wallpaper.theme)")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory (default wallpaper.output_dir)")
	cmd.Flags().StringVar(&opts.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&opts.nightMode, "night-mode", false, "fold every phase into the day phase")
	cmd.Flags().BoolVar(&opts.setWallpaper, "set-wallpaper", false, "point the desktop background at the new file")
	return cmd
}

func runGenerate(ctx context.Context, configFlag string, opts generateOptions, out io.Writer) error {
	cfg, log, err := loadConfig(configFlag)
	if err != nil {
		return err
	}

	when, err := solarDate(opts.date, cfg.Site.TimezoneOffset)
	if err != nil {
		return err
	}
	if opts.theme != "" {
		cfg.Wallpaper.Theme = opts.theme
	}
	if opts.outputDir != "" {
		cfg.Wallpaper.OutputDir = opts.outputDir
	}

	th, err := theme.Open(cfg.Wallpaper.ThemesDir, cfg.Wallpaper.Theme)
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}

	planner, err := newPlanner(cfg, log)
	if err != nil {
		return err
	}

	coords := resolveLocation(ctx, cfg, log)
	sched, err := planner.Plan(schedule.Request{
		Location: schedule.Location{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
			TZOffset:  geo.OffsetOr(cfg.Site.TimezoneOffset, when),
		},
		Date:   when,
		Assets: th.Assets(),
		Options: schedule.Options{
			TransitionSeconds:  th.TransitionDuration(cfg.Wallpaper.TransitionDuration),
			TransitionsEnabled: cfg.Wallpaper.TransitionsEnabled,
			NoonDuration:       cfg.Wallpaper.NoonDuration,
			NightMode:          opts.nightMode,
		},
	})
	if err != nil {
		return err
	}

	path, err := newWriter(cfg).Write(sched)
	if err != nil {
		return err
	}

	if opts.setWallpaper {
		settings := desktop.NewSettings(cfg.Daemon.GSettingsBinary, nil)
		if err := settings.SetWallpaper(ctx, wallpaper.URI(path)); err != nil {
			return fmt.Errorf("setting wallpaper: %w", err)
		}
	}

	fmt.Fprintln(out, path) //nolint:errcheck // Best-effort CLI output
	return nil
}
