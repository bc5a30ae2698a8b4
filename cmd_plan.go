package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/spf13/cobra"

	"wanderplan/acquire"
	"wanderplan/backend"
	"wanderplan/explore"
	"wanderplan/mapview"
	"wanderplan/models"
	"wanderplan/planner"
)

var (
	planDiscover bool
	planGeoJSON  string
	planSave     bool
)

var planCmd = &cobra.Command{
	Use:   "plan [city]",
	Short: "Generate a travel package for a city and print it",
	Long: `Generates a package through the configured acquisition path and renders
it on an in-memory map.

Example:
  wanderplan plan "Rome" --discover --geojson rome.geojson`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planDiscover, "discover", false, "Also discover places near the city center")
	planCmd.Flags().StringVar(&planGeoJSON, "geojson", "", "Write the map markers as GeoJSON to this file")
	planCmd.Flags().BoolVar(&planSave, "save", false, "Toggle the trip in saved trips")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	city := strings.Join(args, " ")

	store, closeStore, err := backend.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	router := acquire.FromConfig(ctx, cfg, logger)
	headless := mapview.NewHeadless()
	view := explore.NewView(router, headless, "cli", store, logger)
	defer view.Close()

	if err := view.Open(ctx, city); err != nil {
		return fmt.Errorf("could not plan %s (mode %s): %w", city, router.Mode(), err)
	}
	out := cmd.OutOrStdout()
	pkg := view.Package()
	printPackage(out, pkg)

	if planDiscover {
		places, err := view.DiscoverNearby(ctx)
		if err != nil {
			return err
		}
		printNearby(out, pkg.Coordinates, places)
	}

	if planSave {
		saved, err := view.ToggleSave(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSaved: %v\n", saved)
	}

	if planGeoJSON != "" {
		raw, err := headless.GeoJSON(view.MapID())
		if err != nil {
			return err
		}
		if err := os.WriteFile(planGeoJSON, raw, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nMap written to %s\n", planGeoJSON)
	}
	return nil
}

func printPackage(w io.Writer, pkg *models.TravelPackage) {
	fmt.Fprintf(w, "%s, %s\n", pkg.City, pkg.Country)
	fmt.Fprintf(w, "%s\n\n", pkg.Description)
	fmt.Fprintf(w, "Duration: %s  Cost: %s  Best time: %s\n", pkg.Duration, pkg.Cost, pkg.BestTime)
	if len(pkg.Themes) > 0 {
		fmt.Fprintf(w, "Themes: %s\n", strings.Join(pkg.Themes, ", "))
	}

	fmt.Fprintln(w, "\nPlaces:")
	center := point(pkg.Coordinates)
	for i, p := range pkg.Places {
		fmt.Fprintf(w, "  %d. %s (%.1f km) - %s\n", i+1, p.Name, geo.Distance(center, point(p.Coordinates))/1000, p.Description)
	}

	fmt.Fprintln(w, "\nItinerary:")
	for _, it := range pkg.Itinerary {
		fmt.Fprintf(w, "  Day %d [%s] %s\n", it.Day, planner.DayKind(it.Activity, it.Day), it.Activity)
	}
}

func printNearby(w io.Writer, from models.Coordinates, places []models.Place) {
	fmt.Fprintln(w, "\nNearby:")
	if len(places) == 0 {
		fmt.Fprintln(w, "  (nothing found)")
		return
	}
	for _, p := range places {
		fmt.Fprintf(w, "  - %s, %.0f m: %s\n", p.Name, geo.Distance(point(from), point(p.Coordinates)), p.Description)
	}
}

func point(c models.Coordinates) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}
