package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	lo "github.com/samber/lo"

	"room-stats/domain/booking"
	"room-stats/domain/report"
)

const pageTitle = "Conference room usage"

func global(t report.Table, dateRange string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "1000px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: t.Title, Subtitle: dateRange}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: t.IndexBy}),
	}
}

// monthly draws one line per room across the month index.
func monthly(t report.Table, dateRange string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(global(t, dateRange)...)
	line.SetXAxis(t.Index)
	for _, room := range t.Columns {
		data := lo.Map(t.Column(room), func(v float64, _ int) opts.LineData { return opts.LineData{Value: v} })
		line.AddSeries(string(room), data)
	}
	return line
}

// grouped draws one bar group per index key, one bar per room.
func grouped(t report.Table, dateRange string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(global(t, dateRange)...)
	bar.SetXAxis(t.Index)
	for _, room := range t.Columns {
		data := lo.Map(t.Column(room), func(v float64, _ int) opts.BarData { return opts.BarData{Value: v} })
		bar.AddSeries(string(room), data)
	}
	return bar
}

// perRoom draws one bar group per room, one bar per index key.
func perRoom(t report.Table, dateRange string) *charts.Bar {
	bar := charts.NewBar()
	g := global(t, dateRange)
	g[len(g)-1] = charts.WithXAxisOpts(opts.XAxis{Name: "room"})
	bar.SetGlobalOptions(g...)
	bar.SetXAxis(lo.Map(t.Columns, func(c booking.Label, _ int) string { return string(c) }))
	for i, key := range t.Index {
		data := lo.Map(t.Values[i], func(v float64, _ int) opts.BarData { return opts.BarData{Value: v} })
		bar.AddSeries(key, data)
	}
	return bar
}

// Page lays out one chart per table: month-indexed tables as lines, totals
// per room, anything else as grouped bars.
func Page(tables []report.Table, dateRange string) *components.Page {
	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	for _, t := range tables {
		switch t.IndexBy {
		case "month":
			page.AddCharts(monthly(t, dateRange))
		case "measure":
			page.AddCharts(perRoom(t, dateRange))
		default:
			page.AddCharts(grouped(t, dateRange))
		}
	}
	return page
}

// Render writes the chart page as a standalone HTML document.
func Render(w io.Writer, tables []report.Table, dateRange string) error {
	return Page(tables, dateRange).Render(w)
}
