package driver

import "time"

// Stage describes a step of rendering one diagram.
type Stage string

const (
	StageLoad   Stage = "load"
	StageParse  Stage = "parse"
	StageLayout Stage = "layout"
	StageRender Stage = "render"
	StageWrite  Stage = "write"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	// StatusCached: layout came from the disk cache.
	StatusCached Status = "cached"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. It is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
