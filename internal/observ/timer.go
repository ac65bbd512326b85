// Package observ collects phase timings for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage. Repeated stages with the same name (parse of
// every file in a directory) are folded into one entry with Count > 1.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Count int
	Note  string
}

// Timer is safe for concurrent use. A nil *Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	index  map[string]int
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), index: make(map[string]int)}
}

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), Count: 1})
	idx := len(t.phases) - 1
	t.index[name] = idx
	return idx
}

// End finishes the phase started by Begin.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Add folds an externally measured duration into the phase called name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx, ok := t.index[name]; ok {
		t.phases[idx].Dur += d
		t.phases[idx].Count++
		return
	}
	t.phases = append(t.phases, Phase{Name: name, Dur: d, Count: 1})
	t.index[name] = len(t.phases) - 1
}

// Track measures fn under name.
func (t *Timer) Track(name string, fn func()) {
	start := time.Now()
	fn()
	t.Add(name, time.Since(start))
}

// Summary renders the report as the text block printed on stderr.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %9.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %9.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport сжатая информация о фазе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases in first-start order. Durations of parallel
// phases add up, so TotalMS may exceed wall time.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{
			Name:       p.Name,
			DurationMS: durationToMillis(p.Dur),
			Count:      p.Count,
			Note:       p.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
