package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SweepRow mirrors the JSONL rows the analysis sweep emits.
type SweepRow struct {
	Bits      int                `json:"bits"`
	Run       int                `json:"run"`
	Seed      int64              `json:"seed"`
	NBits     int                `json:"n_bits"`
	OrderBits int                `json:"order_bits"`
	Complete  bool               `json:"complete"`
	TotalMS   float64            `json:"total_ms"`
	StageMS   map[string]float64 `json:"stage_ms"`
	Counters  map[string]int64   `json:"counters"`
}

var stageOrder = []string{
	"attack/pminus1",
	"attack/order_factor",
	"attack/order_reduce",
	"attack/dlog",
}

func main() {
	inPath := flag.String("in", "Measure_Reports", "sweep JSONL file, or a directory holding solver_sweep_*.jsonl")
	outPath := flag.String("out", "solver_sweep.html", "output HTML file")
	flag.Parse()

	resolvedIn, err := resolveSweepPath(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		os.Exit(1)
	}
	if resolvedIn != *inPath {
		fmt.Fprintf(os.Stderr, "[info] using %s (resolved from %s)\n", resolvedIn, *inPath)
	}

	rows, err := readSweepRows(resolvedIn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "no rows in %s\n", resolvedIn)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "[debug] rows loaded from %s: %d\n", resolvedIn, len(rows))

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := renderSweepPage(f, rows); err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s from %d rows\n", *outPath, len(rows))
}

// resolveSweepPath accepts either a JSONL file or a directory, in which case
// the newest solver_sweep_*.jsonl inside wins.
func resolveSweepPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty input path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "solver_sweep_*.jsonl"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no solver_sweep_*.jsonl under %s", path)
	}
	sort.Strings(matches) // timestamped names sort chronologically
	return matches[len(matches)-1], nil
}

func readSweepRows(path string) ([]SweepRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []SweepRow
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var row SweepRow
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("bad row %q: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func renderSweepPage(w *os.File, rows []SweepRow) error {
	labels, stageMeans, totalMeans, tableMeans := aggregate(rows)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Solve time vs modulus width",
			Subtitle: fmt.Sprintf("%d instances, mean per grid point", len(rows)),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "modulus bits"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "time (ms)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(labels)
	for _, stage := range stageOrder {
		line.AddSeries(stage, toLineItems(stageMeans[stage]))
	}
	line.AddSeries("total", toLineItems(totalMeans))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Baby-step table entries"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "modulus bits"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "entries per solve"}),
	)
	bar.SetXAxis(labels).
		AddSeries("entries", toBarItems(tableMeans)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	page := components.NewPage().SetPageTitle("Smoothlog solver sweep")
	page.AddCharts(line, bar)
	return page.Render(w)
}

func aggregate(rows []SweepRow) (labels []string, stageMeans map[string][]float64, totalMeans, tableMeans []float64) {
	byBits := map[int][]SweepRow{}
	var bits []int
	for _, r := range rows {
		if _, ok := byBits[r.Bits]; !ok {
			bits = append(bits, r.Bits)
		}
		byBits[r.Bits] = append(byBits[r.Bits], r)
	}
	sort.Ints(bits)

	stageMeans = map[string][]float64{}
	for _, b := range bits {
		group := byBits[b]
		labels = append(labels, strconv.Itoa(b))
		for _, stage := range stageOrder {
			var sum float64
			for _, r := range group {
				sum += r.StageMS[stage]
			}
			stageMeans[stage] = append(stageMeans[stage], sum/float64(len(group)))
		}
		var total, entries float64
		for _, r := range group {
			total += r.TotalMS
			entries += float64(r.Counters["dlog/bsgs/table_entries"])
		}
		totalMeans = append(totalMeans, total/float64(len(group)))
		tableMeans = append(tableMeans, entries/float64(len(group)))
	}
	return labels, stageMeans, totalMeans, tableMeans
}

func toLineItems(vals []float64) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func toBarItems(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}
