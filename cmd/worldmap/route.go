package main

import (
	"github.com/spf13/cobra"

	"worldmap/internal/dataset"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
	"worldmap/internal/pathfind"
	"worldmap/internal/tui"
)

func newRouteCommand(a *app) *cobra.Command {
	var from, to, id string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Search an A* route and print it as a YAML path",
		Example: "  worldmap route --from 0,0 --to 250,-40\n" +
			"  worldmap route --from 0,0 --to 250,-40 --id trade-road >> roads.yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePoint(from)
			if err != nil {
				return err
			}
			goal, err := parsePoint(to)
			if err != nil {
				return err
			}
			p, err := tui.PlanRoute(id, start, goal, a.routeOptions())
			if err != nil {
				return err
			}
			a.log.Info("route planned",
				logging.String("id", p.ID),
				logging.Int("points", len(p.Points)),
				logging.Float64("length", pathfind.Length(p.Coordinates())))
			return dataset.EncodeYAML(cmd.OutOrStdout(), dataset.Dataset{Paths: []mapstate.Path{p}})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start point x,y")
	cmd.Flags().StringVar(&to, "to", "", "goal point x,y")
	cmd.Flags().StringVar(&id, "id", "", "path id (default: random)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
