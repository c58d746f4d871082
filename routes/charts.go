/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/healthscore/analysis"
	"github.com/humaidq/healthscore/db"
)

var statusColors = map[analysis.StatusCategory]string{
	analysis.CategoryOptimal:           "#2e7d32",
	analysis.CategoryBelowOptimal:      "#9e9d24",
	analysis.CategoryAboveOptimal:      "#9e9d24",
	analysis.CategoryBelowAcceptable:   "#ef6c00",
	analysis.CategoryAboveAcceptable:   "#ef6c00",
	analysis.CategorySignificantlyHigh: "#c62828",
	analysis.CategoryUnknown:           "#757575",
}

// rangeMarkLines draws dashed gray lines without arrows, as used on every
// chart.
func rangeMarkLines(items []interface{}) charts.SeriesOpts {
	return func(s *charts.SingleSeries) {
		s.MarkLines = &opts.MarkLines{
			Data: items,
			MarkLineStyle: opts.MarkLineStyle{
				Symbol: []string{"none", "none"},
				LineStyle: &opts.LineStyle{
					Color: "rgba(128, 128, 128, 0.6)",
					Type:  "dashed",
					Width: 1.5,
				},
			},
		}
	}
}

// rangePosition maps a value onto its acceptable range: 0 is the minimum
// and 100 the maximum.
func rangePosition(value, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}

	return (value - lo) / (hi - lo) * 100
}

// generateReportChart renders a bar chart placing each registered biomarker
// of a report within its acceptable range. It returns an empty string when
// no biomarker has a registry definition.
func generateReportChart(analyzer *analysis.Analyzer, report *analysis.Report) (string, error) {
	reg := analyzer.Registry()

	names := make([]string, 0, len(report.Biomarkers))
	bars := make([]opts.BarData, 0, len(report.Biomarkers))

	for _, b := range report.Biomarkers {
		def, ok := reg.Biomarker(b.Key)
		if !ok {
			continue
		}

		names = append(names, b.Name)
		bars = append(bars, opts.BarData{
			Name:  b.Status,
			Value: rangePosition(b.Value, def.AcceptableMin, def.AcceptableMax),
			ItemStyle: &opts.ItemStyle{
				Color: statusColors[b.StatusCategory],
			},
		})
	}

	if len(bars) == 0 {
		return "", nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Position within acceptable range",
			Subtitle: "0% is the lower bound, 100% the upper bound",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "%",
		}),
	)

	bar.SetXAxis(names).
		AddSeries("Biomarkers", bars).
		SetSeriesOptions(rangeMarkLines([]interface{}{
			opts.MarkLineNameYAxisItem{Name: "Acceptable Min", YAxis: 0},
			opts.MarkLineNameYAxisItem{Name: "Acceptable Max", YAxis: 100},
		}))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// generateTrendChart creates a line chart of one biomarker across stored
// analyses, with acceptable and optimal range lines.
func generateTrendChart(def db.BiomarkerDefinitionRow, points []db.BiomarkerPoint) (string, error) {
	if len(points) == 0 {
		return "", nil
	}

	xAxis := make([]string, 0, len(points))
	yData := make([]opts.LineData, 0, len(points))
	dataMin, dataMax := points[0].Value, points[0].Value

	for _, p := range points {
		xAxis = append(xAxis, p.RecordedAt.Format("Jan 2, 2006 15:04"))
		yData = append(yData, opts.LineData{Value: p.Value})
		dataMin = min(dataMin, p.Value)
		dataMax = max(dataMax, p.Value)
	}

	// Scale the y-axis to include the acceptable range with some padding.
	padding := (def.AcceptableMax - def.AcceptableMin) * 0.1
	yMin := def.AcceptableMin - padding
	yMax := def.AcceptableMax + padding

	if dataMin < yMin {
		yMin = dataMin - (dataMax-dataMin)*0.05
	}

	if dataMax > yMax {
		yMax = dataMax + (dataMax-dataMin)*0.05
	}

	yMin = max(yMin, 0)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: def.Name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: def.Unit,
			Min:  yMin,
			Max:  yMax,
		}),
	)

	var markLineItems []interface{}

	// A zero lower bound means the range is open below.
	if def.AcceptableMin != 0 {
		markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{Name: "Acceptable Min", YAxis: def.AcceptableMin})
	}

	markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{Name: "Acceptable Max", YAxis: def.AcceptableMax})

	if def.OptimalMin != 0 {
		markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{Name: "Optimal Min", YAxis: def.OptimalMin})
	}

	markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{Name: "Optimal Max", YAxis: def.OptimalMax})

	line.SetXAxis(xAxis).
		AddSeries(def.Name, yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithMarkPointNameTypeItemOpts(
				opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
				opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
			),
			rangeMarkLines(markLineItems),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
