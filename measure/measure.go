package measure

// Package measure collects named counters from the solver internals (group
// multiplications, gcd calls, table sizes). Collection is off unless
// SMOOTHLOG_MEASURE=1, so the hot loops pay one boolean test when disabled.

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Enabled gates all collection; call sites test it before calling Add.
var Enabled = os.Getenv("SMOOTHLOG_MEASURE") == "1"

// Counters is a named set of monotonically growing counters.
type Counters struct {
	mu sync.Mutex
	m  map[string]int64
}

// Global receives every counter in the repository.
var Global = &Counters{m: make(map[string]int64)}

// Add increases the named counter by n.
func (c *Counters) Add(name string, n int64) {
	c.mu.Lock()
	c.m[name] += n
	c.mu.Unlock()
}

// Get returns the current value of the named counter.
func (c *Counters) Get(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[name]
}

// SnapshotAndReset returns the collected counters and clears them.
func (c *Counters) SnapshotAndReset() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.m
	c.m = make(map[string]int64)
	return out
}

// Dump prints the counters to stdout, sorted by name.
func (c *Counters) Dump() {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.m))
	for k := range c.m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("%-36s %12d\n", k, c.m[k])
	}
}
