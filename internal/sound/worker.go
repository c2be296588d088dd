package sound

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Output receives ready-to-play streamers.
type Output interface {
	Play(s beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

// OpenSpeaker initialises the system audio device.
func OpenSpeaker() (Output, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	return speakerOutput{}, nil
}

type message struct {
	id     ID
	volume float64
}

// Worker owns the audio output on its own goroutine. Play never blocks:
// requests that do not fit in the buffer are dropped.
type Worker struct {
	out  Output
	log  *slog.Logger
	ch   chan message
	done chan struct{}

	once    sync.Once
	started atomic.Bool
	closed  atomic.Bool

	dropped atomic.Int64
}

// NewWorker creates a worker with room for buffer pending requests. A nil
// out makes the worker silent.
func NewWorker(out Output, buffer int, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		out:  out,
		log:  logger,
		ch:   make(chan message, max(buffer, 1)),
		done: make(chan struct{}),
	}
}

// Start launches the playback goroutine.
func (w *Worker) Start() {
	if w.started.CompareAndSwap(false, true) {
		go w.run()
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for msg := range w.ch {
		if w.out == nil {
			continue
		}
		s := Effect(msg.id)
		if s == nil {
			w.log.Warn("sound: unknown effect", "id", msg.id)
			continue
		}
		w.out.Play(&effects.Gain{Streamer: s, Gain: msg.volume - 1})
	}
}

// Play queues a request. It is safe to call after Close; the request is
// dropped.
func (w *Worker) Play(id ID, volume float64) {
	if w.closed.Load() {
		return
	}
	select {
	case w.ch <- message{id: id, volume: volume}:
	default:
		w.dropped.Add(1)
		w.log.Debug("sound: queue full, dropping", "id", id)
	}
}

// Dropped returns how many requests were discarded.
func (w *Worker) Dropped() int64 { return w.dropped.Load() }

// Close stops accepting requests and waits for the goroutine to drain.
// Must not race with Play from another goroutine.
func (w *Worker) Close() {
	w.once.Do(func() {
		w.closed.Store(true)
		close(w.ch)
	})
	if w.started.Load() {
		<-w.done
	}
}
