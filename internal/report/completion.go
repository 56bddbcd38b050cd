// Package report renders collection summaries.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

// ChartTitle is the heading of the completion chart.
const ChartTitle = "Collection Completion"

// WriteCompletionChart renders an HTML page with one bar per series showing
// the share of distinct cards owned.
func WriteCompletionChart(w io.Writer, stats []collection.SeriesStats) error {
	codes := make([]string, 0, len(stats))
	percent := make([]opts.BarData, 0, len(stats))
	copies := make([]opts.BarData, 0, len(stats))
	for _, s := range stats {
		codes = append(codes, s.Code)
		percent = append(percent, opts.BarData{Name: s.SeriesName, Value: math.Round(s.Percent()*10) / 10})
		copies = append(copies, opts.BarData{Name: s.SeriesName, Value: s.Copies})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: ChartTitle}),
		charts.WithTitleOpts(opts.Title{
			Title:    ChartTitle,
			Subtitle: fmt.Sprintf("%d series", len(stats)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "owned"}),
	)
	bar.SetXAxis(codes).
		AddSeries("Owned %", percent).
		AddSeries("Copies", copies)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render completion chart: %w", err)
	}
	return nil
}

// WriteCompletionTable prints per-series completion as aligned text.
func WriteCompletionTable(w io.Writer, stats []collection.SeriesStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSERIES\tOWNED\tTOTAL\tCOMPLETE\tCOPIES")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%\t%d\n",
			s.Code, collection.SeriesTitle(s.SeriesName), s.Owned, s.Total, s.Percent(), s.Copies)
	}
	return tw.Flush()
}
