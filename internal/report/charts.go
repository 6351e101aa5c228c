package report

import (
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/IshaanNene/forumpulse/internal/analysis"
)

func groupBar(groups []analysis.Count) *charts.Bar {
	names := make([]string, 0, len(groups))
	values := make([]opts.BarData, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
		values = append(values, opts.BarData{Value: g.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Frequency of Posts in Each Subreddit",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Subreddit"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency"}),
	)
	bar.SetXAxis(names).AddSeries("Posts", values)
	return bar
}

func wordCloud(words []analysis.Count, excluded []string) *charts.WordCloud {
	data := make([]opts.WordCloudData, 0, len(words))
	for _, w := range words {
		data = append(data, opts.WordCloudData{Name: w.Name, Value: w.Count})
	}

	title := "Word Cloud of Title Column"
	if len(excluded) > 0 {
		title = fmt.Sprintf("%s (Ignoring %s)", title, quoteJoin(excluded))
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	wc.AddSeries("words", data)
	return wc
}

func wordPie(words []analysis.Count) *charts.Pie {
	data := make([]opts.PieData, 0, len(words))
	for _, w := range words {
		data = append(data, opts.PieData{Name: w.Name, Value: w.Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Distribution of Word Frequencies (Top %d)", len(words)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	pie.AddSeries("words", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

func histogramBar(title, axis string, h analysis.Histogram) *charts.Bar {
	labels := make([]string, 0, len(h.Bins))
	values := make([]opts.BarData, 0, len(h.Bins))
	for _, b := range h.Bins {
		labels = append(labels, fmt.Sprintf("%.2f", (b.Lo+b.Hi)/2))
		values = append(values, opts.BarData{Value: b.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: axis}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency"}),
	)
	bar.SetXAxis(labels).AddSeries("Frequency", values)
	return bar
}

func polarityScatter(points []analysis.Point) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []any{p.Index, p.Value}})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "VADER Polarity of Posts"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Post Index", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Polarity", Type: "value", Min: -1, Max: 1}),
	)
	sc.AddSeries("vader_polarity", data)
	return sc
}

func quoteJoin(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, " and ")
}
