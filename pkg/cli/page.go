package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mchmarny/hajjdash/pkg/data"
	"github.com/mchmarny/hajjdash/pkg/net"
	"github.com/urfave/cli/v3"
)

const (
	flagName     = "name"
	flagRegion   = "region"
	flagAgeGroup = "age-group"
)

func newPageCmd() *cli.Command {
	return &cli.Command{
		Name:   "page",
		Usage:  "Print the data behind a dashboard page",
		Action: cmdPage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagName,
				Usage: fmt.Sprintf("Page name [%s]", strings.Join(data.Pages(), ", ")),
				Value: data.PageStrategic,
			},
			&cli.StringFlag{
				Name:  flagRegion,
				Usage: "Depositor region filter (analytics page)",
				Value: data.AllRegions,
			},
			&cli.StringFlag{
				Name:  flagAgeGroup,
				Usage: fmt.Sprintf("Depositor age group filter [%s] (analytics page)", strings.Join(data.AgeGroups(), ", ")),
				Value: data.AllAges,
			},
		},
	}
}

func cmdPage(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	name := strings.ToLower(cmd.String(flagName))

	if !data.Contains(data.Pages(), name) {
		return fmt.Errorf("unknown page %q, expected one of: %s", name, strings.Join(data.Pages(), ", "))
	}

	var v any
	var err error

	switch name {
	case data.PageStrategic:
		v, err = data.GetStrategicPage(cfg.DB)
	case data.PageAnalytics:
		v, err = data.GetAnalyticsPage(cfg.DB, data.DepositorFilter{
			Region:   cmd.String(flagRegion),
			AgeGroup: cmd.String(flagAgeGroup),
		})
	case data.PageStatus:
		st := cfg.Config.Status
		v, err = buildStatusPage(ctx, cfg.DB, st, net.NewClient(st.ProbeTimeout), nil)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s page: %w", name, err)
	}

	return output(cmd, v)
}
