package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/services"
	"time"

	"github.com/spf13/cobra"
)

type tripOptions struct {
	from, fromCounty string
	to, toCounty     string
	stop             string
	distanceKm       float64
	departAt         string
}

func newTripCmd(app *App) *cobra.Command {
	var opts tripOptions

	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Estimate a truck trip including mandatory breaks",
		Long: "Estimate a truck trip including mandatory breaks.\n\n" +
			"With --distance-km the estimate is computed offline from the distance alone.\n" +
			"Otherwise --from and --to are resolved through the city catalog and distance provider.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("distance-km") {
				return runTripDistance(cmd.OutOrStdout(), opts.distanceKm)
			}
			return runTrip(cmd.Context(), cmd.OutOrStdout(), app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Origin city")
	cmd.Flags().StringVar(&opts.fromCounty, "from-county", "", "Origin county")
	cmd.Flags().StringVar(&opts.to, "to", "", "Destination city")
	cmd.Flags().StringVar(&opts.toCounty, "to-county", "", "Destination county")
	cmd.Flags().StringVar(&opts.stop, "stop", "", "Intermediate stop city")
	cmd.Flags().Float64Var(&opts.distanceKm, "distance-km", 0, "Road distance in kilometres (skips lookup)")
	cmd.Flags().StringVar(&opts.departAt, "depart-at", "", "Departure time, RFC 3339 (default now)")
	return cmd
}

func runTripDistance(w io.Writer, km float64) error {
	if km < 0 {
		return fmt.Errorf("distance must be non-negative, got %v", km)
	}

	hours, err := services.TruckDrivingHours(int(math.Round(km * 1000)))
	if err != nil {
		return err
	}
	schedule, err := services.ComputeBreakSchedule(hours)
	if err != nil {
		return err
	}

	printHeader(w, fmt.Sprintf("Trip of %.0f km", km))
	printField(w, "Driving time", services.FormatHoursMinutes(hours))
	printSchedule(w, schedule)
	printField(w, "Total duration", services.FormatHoursMinutes(hours+float64(schedule.TotalBreakMinutes)/60))
	return nil
}

func runTrip(ctx context.Context, w io.Writer, app *App, opts tripOptions) error {
	if opts.from == "" || opts.to == "" {
		return errors.New("--from and --to are required unless --distance-km is given")
	}
	if app == nil || app.Catalog == nil || app.Provider == nil {
		return errors.New("city lookup unavailable: configure CITIES_PATH and a distance provider")
	}

	req := services.EstimateTripRequest{
		OriginCity:        opts.from,
		OriginCounty:      opts.fromCounty,
		DestinationCity:   opts.to,
		DestinationCounty: opts.toCounty,
		StopName:          opts.stop,
	}
	if opts.departAt != "" {
		t, err := time.Parse(time.RFC3339, opts.departAt)
		if err != nil {
			return fmt.Errorf("invalid --depart-at: %w", err)
		}
		req.DepartAt = t
	}

	if ctx == nil {
		ctx = context.Background()
	}
	est, err := services.EstimateTrip(ctx, req, app.Catalog, app.Provider)
	if err != nil {
		return err
	}

	printEstimate(w, est)
	return nil
}

func printEstimate(w io.Writer, e *domain.TripEstimate) {
	title := e.Origin.Label() + " -> " + e.Destination.Label()
	if e.Stop != nil {
		title = e.Origin.Label() + " -> " + e.Stop.Label() + " -> " + e.Destination.Label()
	}

	printHeader(w, title)
	printField(w, "Distance", fmt.Sprintf("%.1f km", float64(e.DistanceMeters)/1000))
	printField(w, "Driving time", services.FormatHoursMinutes(e.DrivingHours))
	printSchedule(w, e.Breaks)
	printField(w, "Total duration", services.FormatHoursMinutes(e.TotalHours))
	printField(w, "Departure", e.DepartAt.Format("2006-01-02 15:04 MST"))
	printField(w, "Arrival", e.ArriveAt.Format("2006-01-02 15:04 MST"))
	if e.ArrivesAfterDark {
		fmt.Fprintln(w, styleWarn.Render("  Arrival is after dark at the destination."))
	}
}
