package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"seqdiag/internal/driver"
)

func TestApplyEvents(t *testing.T) {
	files := []string{"a.seq", "b.seq"}
	m := NewProgressModel("rendering", files, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.seq", Stage: driver.StageLayout, Status: driver.StatusWorking})
	if m.items[0].status != "layout" {
		t.Fatalf("status = %q, want layout", m.items[0].status)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.applyEvent(driver.Event{File: "a.seq", Stage: driver.StageWrite, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.seq", Stage: driver.StageParse, Status: driver.StatusError, Err: errors.New("x")})
	if m.finished() != 2 || m.percent() != 1 {
		t.Fatalf("finished=%d percent=%v", m.finished(), m.percent())
	}

	// событие без файла и чужой файл игнорируются
	m.applyEvent(driver.Event{Stage: driver.StageWrite, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "zzz.seq", Status: driver.StatusError})

	view := m.View()
	if !strings.Contains(view, "(2/2)") || !strings.Contains(view, "error") || !strings.Contains(view, "a.seq") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestDoneMsgQuits(t *testing.T) {
	m := NewProgressModel("r", []string{"a.seq"}, nil).(*progressModel)
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("doneMsg must finish the model")
	}
	if !strings.Contains(m.View(), "done: r") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestEmptyView(t *testing.T) {
	if v := NewProgressModel("r", nil, nil).View(); v != "" {
		t.Fatalf("empty model must render nothing, got %q", v)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 40)
	if got := truncate(long, 10); runewidth.StringWidth(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate(long, 2); got != "xx" {
		t.Fatalf("truncate = %q", got)
	}
	for _, width := range []int{4, 7, 25} {
		if got := truncate(long, width); runewidth.StringWidth(got) != width {
			t.Fatalf("truncate(%d) = %q, width %d", width, got, runewidth.StringWidth(got))
		}
	}
	wide := strings.Repeat("日", 10)
	if got := truncate(wide, 9); runewidth.StringWidth(got) > 9 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate wide = %q", got)
	}
}
