package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

func newGeoCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Query the service-area geography",
	}
	cmd.AddCommand(
		newGeoAreaCmd(e),
		newGeoNearestCmd(e),
		newGeoMeetingPointsCmd(e),
		newGeoRouteCmd(e),
		newGeoTravelTimeCmd(e),
		newGeoSafetyCmd(e),
		newGeoDescribeCmd(e),
		newGeoFormatCmd(e),
	)
	return cmd
}

// pointFlags registers required --lat and --lng flags on cmd.
func pointFlags(cmd *cobra.Command, p *domain.GeoPoint) {
	cmd.Flags().Float64Var(&p.Lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&p.Lng, "lng", 0, "longitude in decimal degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
}

func newGeoAreaCmd(e *env) *cobra.Command {
	var (
		p      domain.GeoPoint
		buffer float64
	)
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Show the service area, or check whether a point is inside it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			out := map[string]any{"area": e.geo.Area()}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				out["point"] = p
				out["within"] = e.geo.ServiceAreaCheck(p, buffer)
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().Float64Var(&p.Lat, "lat", 0, "latitude to check")
	cmd.Flags().Float64Var(&p.Lng, "lng", 0, "longitude to check")
	cmd.Flags().Float64Var(&buffer, "buffer-km", -1, "extra radius in km (negative uses the default)")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
	return cmd
}

func newGeoNearestCmd(e *env) *cobra.Command {
	var p domain.GeoPoint
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the landmark closest to a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			match, err := e.geo.NearestLandmark(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd, match)
		},
	}
	pointFlags(cmd, &p)
	return cmd
}

func newGeoMeetingPointsCmd(e *env) *cobra.Command {
	var (
		p     domain.GeoPoint
		maxKm float64
	)
	cmd := &cobra.Command{
		Use:   "meeting-points",
		Short: "List safe meeting points near a point, closest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			points, err := e.geo.MeetingPoints(cmd.Context(), p, maxKm)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"meeting_points": points, "count": len(points)})
		},
	}
	pointFlags(cmd, &p)
	cmd.Flags().Float64Var(&maxKm, "max-km", -1, "search radius in km (negative uses the default)")
	return cmd
}

type routeInput struct {
	Stops []domain.RouteStop `json:"stops"`
	Start *domain.GeoPoint   `json:"start"`
}

func newGeoRouteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "route [file|-]",
		Short: "Order itinerary stops into a walking route",
		Long: `Order itinerary stops into a nearest-neighbour route.

Input is a JSON object:
  {"stops": [{"name": "...", "coordinates": {"lat": 26.16, "lng": 91.70}}],
   "start": {"lat": 26.18, "lng": 91.74}}

"start" is optional; without it the route begins at the first stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var in routeInput
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("route input: %w", err)
			}
			if err := e.services(); err != nil {
				return err
			}
			route, err := e.geo.SuggestRoute(cmd.Context(), in.Stops, in.Start)
			if err != nil {
				return err
			}
			return printJSON(cmd, route)
		},
	}
}

func newGeoTravelTimeCmd(e *env) *cobra.Command {
	var (
		from, to domain.GeoPoint
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "travel-time",
		Short: "Estimate travel time between two points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			est, err := e.geo.TravelTime(from, to, mode)
			if err != nil {
				return err
			}
			return printJSON(cmd, est)
		},
	}
	cmd.Flags().Float64Var(&from.Lat, "from-lat", 0, "origin latitude")
	cmd.Flags().Float64Var(&from.Lng, "from-lng", 0, "origin longitude")
	cmd.Flags().Float64Var(&to.Lat, "to-lat", 0, "destination latitude")
	cmd.Flags().Float64Var(&to.Lng, "to-lng", 0, "destination longitude")
	cmd.Flags().StringVar(&mode, "mode", "walking", "walking, bicycling, driving or auto")
	for _, f := range []string{"from-lat", "from-lng", "to-lat", "to-lng"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newGeoSafetyCmd(e *env) *cobra.Command {
	var (
		p         domain.GeoPoint
		timeOfDay string
	)
	cmd := &cobra.Command{
		Use:   "safety",
		Short: "Score how safe a point is for meeting tourists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if timeOfDay != "day" && timeOfDay != "night" {
				return fmt.Errorf("--time must be day or night, got %q", timeOfDay)
			}
			if err := e.services(); err != nil {
				return err
			}
			report, err := e.geo.Safety(cmd.Context(), p, timeOfDay)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	pointFlags(cmd, &p)
	cmd.Flags().StringVar(&timeOfDay, "time", "day", "day or night")
	return cmd
}

func newGeoDescribeCmd(e *env) *cobra.Command {
	var p domain.GeoPoint
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe a point relative to the nearest landmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			addr, err := e.geo.Describe(p)
			if err != nil {
				return err
			}
			return printJSON(cmd, addr)
		},
	}
	pointFlags(cmd, &p)
	return cmd
}

func newGeoFormatCmd(e *env) *cobra.Command {
	var (
		p      domain.GeoPoint
		format string
	)
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Render a point as decimal, dms or geojson",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			s, err := e.geo.FormatCoordinates(p, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	pointFlags(cmd, &p)
	cmd.Flags().StringVar(&format, "format", "decimal", "decimal, dms or geojson")
	return cmd
}
