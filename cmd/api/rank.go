package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"happydash.dev/internal/happiness"
	"happydash.dev/internal/report"
)

type rankOptions struct {
	region    string
	indicator string
	order     string
	top       int
	scope     string
	format    string
}

func newRankCmd(global *globalOptions) *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print a ranking table",
		Long: `Print the countries of a region ranked by one indicator, or with --top,
the world ranking by happiness score.`,
		Example: `  happydash rank --region "Western Europe" --indicator "Rent Index" --order desc
  happydash rank --top 10
  happydash rank --top 100 --region "South Asia" --scope filtered --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := global.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), config)
			if err != nil {
				return err
			}
			ds, err := happiness.LoadFile(config.DataPath, logger)
			if err != nil {
				return err
			}

			q, err := opts.query(cmd)
			if err != nil {
				return err
			}
			return rank(cmd.OutOrStdout(), ds, q, opts.format)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.region, "region", happiness.AllRegions, "Region to rank")
	flags.StringVar(&opts.indicator, "indicator", happiness.LadderScore, "Indicator to rank by")
	flags.StringVar(&opts.order, "order", "desc", "Sort order: asc or desc")
	flags.IntVar(&opts.top, "top", 0, "Show the world ranking of the top N countries instead")
	flags.StringVar(&opts.scope, "scope", string(happiness.ScopeAll), "With --top: all, or filtered to --region")
	flags.StringVar(&opts.format, "format", report.FormatTable, "Output format: table or csv")
	return cmd
}

func (opts *rankOptions) query(cmd *cobra.Command) (happiness.Query, error) {
	order, err := happiness.ParseOrder(opts.order)
	if err != nil {
		return happiness.Query{}, err
	}
	scope, err := happiness.ParseScope(opts.scope)
	if err != nil {
		return happiness.Query{}, err
	}
	if cmd.Flags().Changed("top") {
		if opts.top <= 0 {
			return happiness.Query{}, fmt.Errorf("%w: --top must be positive, got %d", happiness.ErrInvalidLimit, opts.top)
		}
		return happiness.Query{
			Kind:      happiness.KindWorld,
			Region:    opts.region,
			Indicator: opts.indicator,
			Limit:     opts.top,
			Scope:     scope,
		}, nil
	}
	return happiness.Query{
		Kind:      happiness.KindPreference,
		Region:    opts.region,
		Indicator: opts.indicator,
		Order:     order,
	}, nil
}

// rank checks q against ds, which the HTTP layer does too, then prints the view.
func rank(w io.Writer, ds *happiness.Dataset, q happiness.Query, format string) error {
	if err := ds.CheckRegion(q.Region); err != nil {
		return err
	}
	view, err := happiness.Select(ds, q)
	if err != nil {
		return err
	}
	return report.Write(w, format, view)
}
