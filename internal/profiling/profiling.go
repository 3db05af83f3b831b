package profiling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Frame accumulates CPU time per named bucket over one frame.
// It belongs to the render thread and is not safe for concurrent use.
type Frame struct {
	totals map[string]time.Duration
}

// NewFrame creates an empty accumulator
func NewFrame() *Frame {
	return &Frame{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer f.Track("render.Draw")()
func (f *Frame) Track(name string) func() {
	start := time.Now()
	return func() {
		f.totals[name] += time.Since(start)
	}
}

// Reset clears the totals. Call at the start of each frame.
func (f *Frame) Reset() {
	clear(f.totals)
}

// Get returns the total recorded under name
func (f *Frame) Get(name string) time.Duration {
	return f.totals[name]
}

// Sum returns the total of every bucket whose name starts with prefix
func (f *Frame) Sum(prefix string) time.Duration {
	var d time.Duration
	for k, v := range f.totals {
		if strings.HasPrefix(k, prefix) {
			d += v
		}
	}
	return d
}

// TopN formats the n largest buckets, e.g. "glfw.SwapBuffers:4.2ms, render.Draw:0.1ms"
func (f *Frame) TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(f.totals))
	for k, v := range f.totals {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", p.name, float64(p.dur.Microseconds())/1000.0))
	}
	return strings.Join(parts, ", ")
}
