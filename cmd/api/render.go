package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"happydash.dev/internal/charts"
	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
)

type renderOptions struct {
	region    string
	indicator string
	order     string
	out       string
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <preference|density|comparison>",
		Short: "Render a static SVG chart",
		Example: `  happydash render comparison --region "Western Europe" --out comparison.svg
  happydash render preference --indicator "Groceries Index" --order desc > groceries.svg`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{charts.StaticPreference, charts.StaticDensity, charts.StaticComparison},
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

			order, err := happiness.ParseOrder(opts.order)
			if err != nil {
				return err
			}
			q := happiness.Query{Region: opts.region, Indicator: opts.indicator, Order: order}

			if opts.out == "" || opts.out == "-" {
				return render(cmd.OutOrStdout(), ds, args[0], q)
			}
			return renderFile(opts.out, ds, args[0], q, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.region, "region", happiness.AllRegions, "Region to chart")
	flags.StringVar(&opts.indicator, "indicator", happiness.LadderScore, "Indicator for the preference chart")
	flags.StringVar(&opts.order, "order", "asc", "Sort order for the preference chart: asc or desc")
	flags.StringVarP(&opts.out, "out", "o", "", "Output file; stdout when empty")
	return cmd
}

func render(w io.Writer, ds *happiness.Dataset, name string, q happiness.Query) error {
	kind, err := charts.StaticKind(name)
	if err != nil {
		return err
	}
	if err := ds.CheckRegion(q.Region); err != nil {
		return err
	}
	q.Kind = kind
	view, err := happiness.Select(ds, q)
	if err != nil {
		return err
	}
	return charts.RenderSVG(w, name, view)
}

func renderFile(path string, ds *happiness.Dataset, name string, q happiness.Query, logger *slog.Logger) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close_chart_file")

	if err = render(f, ds, name, q); err != nil {
		return err
	}
	logging.LogOperation(logger, "chart_rendered", slog.String("chart", name), slog.String("path", path))
	return nil
}
