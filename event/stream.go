// Package event implements the per-execution Stream Sink the Executor
// emits Step Events to (spec.md §3, §6). A script execution's events have
// exactly one consumer — the HTTP request that triggered it — so this is a
// narrow single-writer sink, not a topic bus: there is nothing here for a
// cross-process message broker to do (spec.md Non-goals: no persistence
// or replay across requests).
package event

import (
	"sync"

	"github.com/awantoch/uiscript/model"
)

// Sink receives Step Events in emission order. Emit MAY be called from
// only one goroutine per execution (spec.md §5: single-threaded
// semantics); implementations must not block the caller indefinitely —
// a slow or closed consumer should drop events rather than stall script
// execution (spec.md §5: "the event emitter MAY drop writes to a closed
// stream silently").
type Sink interface {
	Emit(ev model.StepEvent)
}

// NopSink discards every event; used by POST /script, which only cares
// about the Terminal Result.
type NopSink struct{}

func (NopSink) Emit(model.StepEvent) {}

// RecordingSink accumulates every event in order — used by tests that
// assert on the emitted sequence (spec.md §8 invariant 4).
type RecordingSink struct {
	mu     sync.Mutex
	Events []model.StepEvent
}

func (s *RecordingSink) Emit(ev model.StepEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, ev)
}

func (s *RecordingSink) Snapshot() []model.StepEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StepEvent, len(s.Events))
	copy(out, s.Events)
	return out
}

// ChanSink forwards each event onto a channel for POST /script/stream to
// drain into SSE frames. While the channel is full, Emit blocks until the
// reader takes an event or Close is called; after Close, Emit drops the
// event, so a disconnected client stops stalling the interpreter once the
// stream handler closes the sink (spec.md §5).
type ChanSink struct {
	ch     chan model.StepEvent
	closed chan struct{}
}

// NewChanSink creates a ChanSink with the given buffer size.
func NewChanSink(buffer int) *ChanSink {
	return &ChanSink{ch: make(chan model.StepEvent, buffer), closed: make(chan struct{})}
}

func (s *ChanSink) Emit(ev model.StepEvent) {
	select {
	case s.ch <- ev:
	case <-s.closed:
	}
}

// Events returns the receive-only channel a stream writer drains.
func (s *ChanSink) Events() <-chan model.StepEvent { return s.ch }

// Close signals no further events will be read; subsequent Emit calls
// return immediately instead of blocking.
func (s *ChanSink) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}
