package prof

// Package prof records coarse wall-clock timings for the attack stages so the
// CLI and sweep tools can show where a solve spent its time.

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Entry is a single labeled duration.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the time elapsed since start under the given label. Meant for
// defer at stage entry:
//
//	defer prof.Track(time.Now(), "attack/pminus1")
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: name, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the entries collected so far, in recording order,
// and clears the log.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Report writes the entries as an aligned table followed by a total line.
func Report(w io.Writer, entries []Entry) {
	var total time.Duration
	for _, e := range entries {
		fmt.Fprintf(w, "%-28s %14s\n", e.Label, e.Dur)
		total += e.Dur
	}
	fmt.Fprintf(w, "%-28s %14s\n", "total", total)
}
