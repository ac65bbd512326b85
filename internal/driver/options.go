package driver

import (
	"fmt"

	"seqdiag/internal/layout"
	"seqdiag/internal/measure"
	"seqdiag/internal/observ"
	"seqdiag/internal/style"
)

// Options configures layout and rendering. The zero value uses the default
// style, the approximate measurer and no cache.
type Options struct {
	Style          *style.Style
	Measurer       layout.Measurer
	MeasurerName   string // part of the cache key; set by WithMeasurer
	Cache          *DiskCache
	Timer          *observ.Timer
	Progress       ProgressSink
	MaxDiagnostics int
	Jobs           int    // RenderDir workers, <= 0 means GOMAXPROCS
	OutDir         string // RenderDir output root, "" writes next to sources
}

// WithMeasurer selects a measurer by name.
func (o Options) WithMeasurer(name string) (Options, error) {
	m, ok := measure.ByName(name)
	if !ok {
		return o, fmt.Errorf("unknown measurer %q (expected approx|fixed)", name)
	}
	o.Measurer = m
	o.MeasurerName = name
	return o, nil
}

func (o *Options) style() style.Style {
	if o.Style == nil {
		return style.Default()
	}
	return *o.Style
}

func (o *Options) measurer() (layout.Measurer, string) {
	if o.Measurer == nil {
		return measure.Approx{}, "approx"
	}
	name := o.MeasurerName
	if name == "" {
		name = fmt.Sprintf("%T%+v", o.Measurer, o.Measurer)
	}
	return o.Measurer, name
}
