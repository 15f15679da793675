// pathplot flies a waypoint mission through the jerk-limited trajectory
// generator and renders the resulting path and kinematic profiles as an
// HTML page of ECharts plots.
//
// Usage:
//
//	pathplot -mission mission.cfg -out mission.html
//
// Options:
//
//	-mission string  Mission configuration file (required)
//	-out string      Output HTML file (default mission.html)
//	-dt float        Sample tick in seconds (default 0.05)
//
// Copyright (C) 2026  Autonav Project Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/spatial/r3"

	"autonav-go/pkg/log"
	"autonav-go/pkg/mission"
	"autonav-go/pkg/scurve"
)

var logger = log.GetLogger("pathplot")

// tick is one recorded control step.
type tick struct {
	time   float64
	leg    int
	sample scurve.Sample
}

func main() {
	missionFile := flag.String("mission", "", "Mission configuration file")
	outFile := flag.String("out", "mission.html", "Output HTML file")
	dt := flag.Float64("dt", 0.05, "Sample tick in seconds")
	flag.Parse()

	if *missionFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -mission is required")
		os.Exit(1)
	}

	m, err := mission.Load(*missionFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ticks, err := fly(m, *dt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(
		groundTrackChart(m, ticks),
		positionChart(ticks),
		profileChart(ticks, "Speed (m/s)", func(s scurve.Sample) float64 { return r3.Norm(s.Vel) }),
		profileChart(ticks, "Acceleration (m/s^2)", func(s scurve.Sample) float64 { return r3.Norm(s.Accel) }),
	)
	if err := page.Render(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.WithFields(log.Fields{
		"mission": *missionFile,
		"out":     *outFile,
		"ticks":   len(ticks),
	}).Info("plot written")
}

// fly runs the whole mission and records every tick.
func fly(m *mission.Mission, dt float64) ([]tick, error) {
	seq, err := mission.NewSequencer(m)
	if err != nil {
		return nil, err
	}
	var ticks []tick
	elapsed := 0.0
	for i := 0; i < 1000000 && !seq.Done(); i++ {
		out, _ := seq.Step(dt)
		elapsed += dt
		ticks = append(ticks, tick{time: elapsed, leg: seq.CurrentLeg(), sample: out})
	}
	if !seq.Done() {
		return nil, fmt.Errorf("mission did not finish within the tick budget")
	}
	return ticks, nil
}

// groundTrackChart plots the XY path flown together with the mission
// waypoints, on a square symmetric-range canvas so corners are not
// distorted.
func groundTrackChart(m *mission.Mission, ticks []tick) components.Charter {
	path := make([]opts.ScatterData, 0, len(ticks))
	maxAbs := 0.0
	for _, tk := range ticks {
		x, y := tk.sample.Pos.X, tk.sample.Pos.Y
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		path = append(path, opts.ScatterData{Value: []interface{}{x, y}})
	}

	wps := make([]opts.ScatterData, 0, len(m.Waypoints))
	for _, wp := range m.Waypoints {
		if math.Abs(wp.Position.X) > maxAbs {
			maxAbs = math.Abs(wp.Position.X)
		}
		if math.Abs(wp.Position.Y) > maxAbs {
			maxAbs = math.Abs(wp.Position.Y)
		}
		wps = append(wps, opts.ScatterData{Value: []interface{}{wp.Position.X, wp.Position.Y}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mission Ground Track", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Ground Track", Subtitle: fmt.Sprintf("waypoints=%d ticks=%d", len(m.Waypoints), len(ticks))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("path", path, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("waypoints", wps,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}),
	)
	return scatter
}

// positionChart plots the three position components against time.
func positionChart(ticks []tick) components.Charter {
	times := make([]string, 0, len(ticks))
	xs := make([]opts.LineData, 0, len(ticks))
	ys := make([]opts.LineData, 0, len(ticks))
	zs := make([]opts.LineData, 0, len(ticks))
	for _, tk := range ticks {
		times = append(times, fmt.Sprintf("%.2f", tk.time))
		xs = append(xs, opts.LineData{Value: tk.sample.Pos.X})
		ys = append(ys, opts.LineData{Value: tk.sample.Pos.Y})
		zs = append(zs, opts.LineData{Value: tk.sample.Pos.Z})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Position"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m"}),
	)
	line.SetXAxis(times).
		AddSeries("x", xs).
		AddSeries("y", ys).
		AddSeries("z", zs)
	return line
}

// profileChart plots one scalar derived from each sample against time.
func profileChart(ticks []tick, title string, value func(scurve.Sample) float64) components.Charter {
	times := make([]string, 0, len(ticks))
	data := make([]opts.LineData, 0, len(ticks))
	for _, tk := range ticks {
		times = append(times, fmt.Sprintf("%.2f", tk.time))
		data = append(data, opts.LineData{Value: value(tk.sample)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
	)
	line.SetXAxis(times).AddSeries("magnitude", data)
	return line
}
