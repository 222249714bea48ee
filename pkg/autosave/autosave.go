// Package autosave coalesces rapid edits into delayed saves.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/huddleup/gameplan/internal/utils"
)

// DefaultDelay is how long a Saver waits after the last change before saving.
const DefaultDelay = time.Second

var ErrClosed = errors.New("autosave: saver is closed")

// SaveFunc persists one value.
type SaveFunc[T any] func(ctx context.Context, v T) error

// Saver holds the latest scheduled value and saves it once no new value has
// arrived for the delay. Saves never run concurrently; only the most recent
// value is written.
type Saver[T any] struct {
	delay time.Duration
	save  SaveFunc[T]
	onErr func(error)

	saveMu sync.Mutex // serializes save calls

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	dirty   bool
	closed  bool
}

type Option func(*options)

type options struct {
	delay time.Duration
	onErr func(error)
}

func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithErrorHandler receives errors from timer-triggered saves. By default they
// are logged.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onErr = fn }
}

func New[T any](save SaveFunc[T], opts ...Option) *Saver[T] {
	o := options{delay: DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.onErr == nil {
		o.onErr = func(err error) {
			utils.Log.WithError(err).Warn("Autosave failed")
		}
	}
	return &Saver[T]{delay: o.delay, save: save, onErr: o.onErr}
}

// Schedule replaces the pending value and restarts the delay.
func (s *Saver[T]) Schedule(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.pending = v
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
	return nil
}

// Pending reports whether a value is waiting to be saved.
func (s *Saver[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush saves the pending value now, if there is one.
func (s *Saver[T]) Flush(ctx context.Context) error {
	return s.flush(ctx)
}

// Close flushes and rejects later Schedule calls.
func (s *Saver[T]) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.flush(ctx)
}

func (s *Saver[T]) fire() {
	if err := s.flush(context.Background()); err != nil {
		s.onErr(err)
	}
}

func (s *Saver[T]) flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	v := s.pending
	s.dirty = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.save(ctx, v)
}
