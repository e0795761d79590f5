//go:build analysis

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	mrand "math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"smoothlog/attack"
	"smoothlog/challenge"
	"smoothlog/measure"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// sweepRow is one solved instance. Rows stream to JSONL so a crashed sweep
// still leaves data behind, and the plot tool can re-render them later.
type sweepRow struct {
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

func parseBitsGrid(csv string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid bits value %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty bits grid")
	}
	sort.Ints(out)
	return out, nil
}

func main() {
	runs := flag.Int("runs", 5, "instances per grid point")
	bitsCSV := flag.String("bits", "128,160,192,224", "modulus widths to sweep, comma separated")
	bound := flag.Uint64("bound", 4096, "smoothness bound for generated instances")
	flagText := flag.String("flag", "picoCTF{sweep}", "flag text to hide in each instance")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	grid, err := parseBitsGrid(*bitsCSV)
	if err != nil {
		log.Fatalf("bits: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("solver_sweep_%s.jsonl", ts))
	jf, err := os.Create(jsonPath)
	if err != nil {
		log.Fatalf("open jsonl output: %v", err)
	}
	jbuf := bufio.NewWriter(jf)
	jenc := json.NewEncoder(jbuf)
	defer func() {
		_ = jbuf.Flush()
		_ = jf.Close()
	}()

	// Counter collection is part of the sweep's job, env var or not.
	measure.Enabled = true

	var rows []sweepRow
	for _, bits := range grid {
		for r := 0; r < *runs; r++ {
			seed := int64(bits)<<20 | int64(r+1)
			rnd := mrand.New(mrand.NewSource(seed))
			log.Printf("[sweep] bits=%d run=%d/%d", bits, r+1, *runs)

			ch, _, err := challenge.Generate(challenge.GenOpts{
				Bits:  bits,
				Bound: *bound,
				Flag:  *flagText,
			}, rnd)
			if err != nil {
				log.Printf("warn: generate bits=%d run=%d: %v", bits, r, err)
				continue
			}

			measure.Global.SnapshotAndReset()
			res, err := attack.Run(ch, attack.Options{
				Bounds: []uint64{*bound, *bound << 4, *bound << 8},
			})
			if err != nil {
				log.Printf("warn: solve bits=%d run=%d: %v", bits, r, err)
				continue
			}

			row := sweepRow{
				Bits:      bits,
				Run:       r,
				Seed:      seed,
				NBits:     ch.N.BitLen(),
				OrderBits: res.OrderBits,
				Complete:  res.Complete,
				StageMS:   map[string]float64{},
				Counters:  measure.Global.SnapshotAndReset(),
			}
			for _, e := range res.Stages {
				ms := float64(e.Dur.Microseconds()) / 1000.0
				row.StageMS[e.Label] += ms
				row.TotalMS += ms
			}
			if err := jenc.Encode(row); err != nil {
				log.Fatalf("write jsonl: %v", err)
			}
			rows = append(rows, row)
		}
	}
	_ = jbuf.Flush()

	if len(rows) == 0 {
		log.Fatalf("no rows collected, nothing to plot")
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("solver_sweep_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := renderSweepPage(f, rows); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Sweep page:", htmlPath)
	fmt.Println("Sweep JSONL:", jsonPath)
}

// renderSweepPage builds the line chart of per-stage time against modulus
// width plus a bar chart of baby-step table load, and renders both to w.
func renderSweepPage(w io.Writer, rows []sweepRow) error {
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

	page := components.NewPage()
	page.AddCharts(line, bar)
	return page.Render(w)
}

func aggregate(rows []sweepRow) (labels []string, stageMeans map[string][]float64, totalMeans, tableMeans []float64) {
	byBits := map[int][]sweepRow{}
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
