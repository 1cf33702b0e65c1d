package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-daylight/internal/geo"
	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

type solarOptions struct {
	lat, lon, tz float64
	date         string
	mode         string
	compare      bool
}

func newSolarCmd(configPath *string) *cobra.Command {
	var opts solarOptions

	cmd := &cobra.Command{
		Use:   "solar",
		Short: "Print sunrise, solar noon, sunset and civil twilight",
		Long: `Print the solar instants used for scheduling. Without --lat and --lon the
configured (or geolocated) site is used.

Examples:
  daylight solar
  daylight solar --lat 52.52 --lon 13.40 --tz 2 --date 2026-06-21 --compare
  daylight solar --lat 52.52 --lon 13.40 --mode standard --compare`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			return runSolar(cmd.Context(), *configPath, opts,
				flags.Changed("lat") && flags.Changed("lon"), flags.Changed("tz"),
				cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in degrees, north positive")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in degrees, east positive")
	cmd.Flags().Float64Var(&opts.tz, "tz", 0, "UTC offset in hours (default host offset)")
	cmd.Flags().StringVar(&opts.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "hour-angle formula: legacy or standard (default solar.hour_angle)")
	cmd.Flags().BoolVar(&opts.compare, "compare", false, "compare against the go-sunrise reference")
	return cmd
}

func runSolar(ctx context.Context, configFlag string, opts solarOptions, haveCoords, haveTZ bool, out io.Writer) error {
	var tzOverride *float64
	mode := opts.mode

	if !haveCoords || mode == "" || !haveTZ {
		cfg, log, err := loadConfig(configFlag)
		switch {
		case err == nil:
			if !haveCoords {
				c := resolveLocation(ctx, cfg, log)
				opts.lat, opts.lon = c.Latitude, c.Longitude
			}
			if mode == "" {
				mode = cfg.Solar.HourAngle
			}
			tzOverride = cfg.Site.TimezoneOffset
		case !haveCoords:
			return err
		}
	}
	if haveTZ {
		tzOverride = &opts.tz
	}

	parsed, err := solar.ParseMode(mode)
	if err != nil {
		return err
	}
	if err := (geo.Coordinates{Latitude: opts.lat, Longitude: opts.lon}).Validate(); err != nil {
		return err
	}

	when, err := solarDate(opts.date, tzOverride)
	if err != nil {
		return err
	}
	tz := geo.OffsetOr(tzOverride, when)

	in := solar.Calculator{Mode: parsed}.Compute(opts.lat, opts.lon, tz, when)
	printInstants(out, opts.lat, opts.lon, tz, when, parsed, in)

	if opts.compare {
		ref, ok := solar.Reference{}.Compute(opts.lat, opts.lon, tz, when)
		if !ok {
			fmt.Fprintln(out, "reference   no sunrise or sunset on this date") //nolint:errcheck // CLI output
		} else {
			printComparison(out, ref, solar.Compare(in, ref))
		}
	}
	return in.Check()
}

//nolint:errcheck // Best-effort CLI output
func printInstants(out io.Writer, lat, lon, tz float64, when time.Time, mode solar.Mode, in solar.Instants) {
	fmt.Fprintf(out, "location    %.4f, %.4f (UTC%+.2f)\n", lat, lon, tz)
	fmt.Fprintf(out, "date        %s\n", when.Format(dateLayout))
	fmt.Fprintf(out, "mode        %s\n", mode)
	fmt.Fprintf(out, "sunrise     %s\n", clock(in.Sunrise))
	fmt.Fprintf(out, "solar noon  %s\n", clock(in.SolarNoon))
	fmt.Fprintf(out, "sunset      %s\n", clock(in.Sunset))
	fmt.Fprintf(out, "civil end   %s\n", clock(in.CivilTwilightEnd))
}

//nolint:errcheck // Best-effort CLI output
func printComparison(out io.Writer, ref solar.Instants, dev solar.Deviation) {
	fmt.Fprintf(out, "reference   sunrise %s  noon %s  sunset %s\n",
		clock(ref.Sunrise), clock(ref.SolarNoon), clock(ref.Sunset))
	fmt.Fprintf(out, "deviation   sunrise %+ds  noon %+ds  sunset %+ds  (max %ds)\n",
		dev.Sunrise, dev.SolarNoon, dev.Sunset, dev.Max())
}

// clock formats seconds since midnight as HH:MM:SS, marking values that
// fall on the neighbouring day.
func clock(seconds int) string {
	switch {
	case seconds == math.MinInt:
		return "not computable"
	case seconds < 0:
		return hms(seconds+solar.DayLength) + " (previous day)"
	case seconds >= solar.DayLength:
		return hms(seconds-solar.DayLength) + " (next day)"
	}
	return hms(seconds)
}

func hms(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
