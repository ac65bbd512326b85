package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerFoldsRepeatedPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 files")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("parse", time.Millisecond)
		}()
	}
	wg.Wait()

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", rep.Phases)
	}
	parse := rep.Phases[1]
	if parse.Name != "parse" || parse.Count != 8 || parse.DurationMS != 8 {
		t.Fatalf("unexpected parse phase %+v", parse)
	}

	sum := tm.Summary()
	if !strings.Contains(sum, "x8") || !strings.Contains(sum, "// 3 files") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerEmptyAndBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(5, "ignored")
	if rep := tm.Report(); rep.Phases != nil || rep.TotalMS != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
	var nilTimer *Timer
	nilTimer.Add("x", time.Second)
}
