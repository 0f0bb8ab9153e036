package audio

import (
	"sync/atomic"

	"github.com/lixenwraith/anatomica/core"
)

// Narrator is a fire-and-forget speech sink. Say never blocks and is never
// awaited; a line arriving while one is being spoken is dropped.
type Narrator struct {
	speak   func(text string)
	queue   chan string
	stop    chan struct{}
	running atomic.Bool
	dropped atomic.Int64
}

// NewNarrator wraps a speech function (a TTS binding, or nil for silence).
func NewNarrator(speak func(text string)) *Narrator {
	if speak == nil {
		speak = func(string) {}
	}
	return &Narrator{
		speak: speak,
		queue: make(chan string, 1),
		stop:  make(chan struct{}),
	}
}

// Start launches the single speech goroutine.
func (n *Narrator) Start() {
	if !n.running.CompareAndSwap(false, true) {
		return
	}
	core.Go(func() {
		for {
			select {
			case text := <-n.queue:
				n.speak(text)
			case <-n.stop:
				return
			}
		}
	})
}

// Stop ends the speech goroutine. Pending lines are discarded.
func (n *Narrator) Stop() {
	if n.running.CompareAndSwap(true, false) {
		close(n.stop)
	}
}

// Say queues text for narration, dropping it when the narrator is busy.
func (n *Narrator) Say(text string) {
	if !n.running.Load() {
		return
	}
	select {
	case n.queue <- text:
	default:
		n.dropped.Add(1)
	}
}

// Dropped returns how many lines were discarded while busy.
func (n *Narrator) Dropped() int64 {
	return n.dropped.Load()
}
