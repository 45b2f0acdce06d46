// Package metrics keeps process-wide statistics about program runs.
// Defined metrics, per engine:
//   <engine>.runs (counter)
//   <engine>.outcome.<name> (counter)
//   <engine>.steps.p50, .p99, .max (gauge)
//   <engine>.depth.max (gauge, peak stack depth)
// Counters and gauges are published through expvar
// by github.com/codahale/metrics under "metrics".
package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/codahale/hdrhistogram"
	"github.com/codahale/metrics"
)

const (
	maxSteps = 1 << 40
	maxDepth = 1 << 24
	sigfigs  = 3
)

type histograms struct {
	steps *hdrhistogram.Histogram
	depth *hdrhistogram.Histogram
}

var (
	mu      sync.Mutex // protects engines
	engines = map[string]*histograms{}
)

// RecordRun records one finished run of the named engine.
// Values beyond the histogram range are clamped.
func RecordRun(engine string, steps uint64, depth int, outcome string) {
	metrics.Counter(engine + ".runs").Add()
	metrics.Counter(engine + ".outcome." + outcome).Add()

	mu.Lock()
	h := engines[engine]
	added := h == nil
	if added {
		h = &histograms{
			steps: hdrhistogram.New(0, maxSteps, sigfigs),
			depth: hdrhistogram.New(0, maxDepth, sigfigs),
		}
		engines[engine] = h
	}
	h.steps.RecordValue(int64(min(steps, maxSteps)))
	h.depth.RecordValue(clamp(int64(depth), maxDepth))
	mu.Unlock()

	// The gauges take mu when read, so register them without it.
	if added {
		publish(engine, h)
	}
}

func publish(engine string, h *histograms) {
	gauge := func(name string, f func() int64) {
		metrics.Gauge(engine + name).SetFunc(func() int64 {
			mu.Lock()
			defer mu.Unlock()
			return f()
		})
	}
	gauge(".steps.p50", func() int64 { return h.steps.ValueAtQuantile(50) })
	gauge(".steps.p99", func() int64 { return h.steps.ValueAtQuantile(99) })
	gauge(".steps.max", h.steps.Max)
	gauge(".depth.max", h.depth.Max)
}

func clamp(v, max int64) int64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// EngineStats is a point-in-time summary for one engine.
type EngineStats struct {
	Engine    string
	Runs      uint64
	StepsMean float64
	StepsP50  int64
	StepsP99  int64
	StepsMax  int64
	DepthMax  int64
	Outcomes  map[string]uint64
}

// Snapshot returns the statistics of every engine
// that has recorded a run, sorted by engine name.
func Snapshot() []EngineStats {
	// The gauges take mu, so read the registry first.
	counters, _ := metrics.Snapshot()

	mu.Lock()
	defer mu.Unlock()
	var out []EngineStats
	for name, h := range engines {
		s := EngineStats{
			Engine:    name,
			Runs:      counters[name+".runs"],
			StepsMean: h.steps.Mean(),
			StepsP50:  h.steps.ValueAtQuantile(50),
			StepsP99:  h.steps.ValueAtQuantile(99),
			StepsMax:  h.steps.Max(),
			DepthMax:  h.depth.Max(),
			Outcomes:  map[string]uint64{},
		}
		prefix := name + ".outcome."
		for k, v := range counters {
			if strings.HasPrefix(k, prefix) {
				s.Outcomes[strings.TrimPrefix(k, prefix)] = v
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Engine < out[j].Engine })
	return out
}

// Reset discards all recorded statistics,
// including every counter and gauge in the registry.
func Reset() {
	metrics.Reset()
	mu.Lock()
	engines = map[string]*histograms{}
	mu.Unlock()
}
