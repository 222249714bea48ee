package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	saved []int
}

func (r *recorder) save(_ context.Context, v int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, v)
	return nil
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.saved...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestBurstCoalescesIntoOneSave(t *testing.T) {
	var r recorder
	s := New(r.save, WithDelay(50*time.Millisecond))

	for i := 1; i <= 5; i++ {
		if err := s.Schedule(i); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
	}
	waitFor(t, func() bool { return len(r.values()) > 0 })
	time.Sleep(100 * time.Millisecond)

	got := r.values()
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected a single save of the last value, got %v", got)
	}
	if s.Pending() {
		t.Fatalf("expected nothing pending after save")
	}
}

func TestCloseFlushesPending(t *testing.T) {
	var r recorder
	s := New(r.save, WithDelay(time.Hour))

	_ = s.Schedule(1)
	_ = s.Schedule(2)
	if !s.Pending() {
		t.Fatalf("expected a pending value")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := r.values(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected close to save 2, got %v", got)
	}
	if err := s.Schedule(3); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestFlushWithNothingPending(t *testing.T) {
	var r recorder
	s := New(r.save)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := r.values(); len(got) != 0 {
		t.Fatalf("expected no saves, got %v", got)
	}
}

func TestSavesAreSerialized(t *testing.T) {
	var (
		mu      sync.Mutex
		running int
		overlap bool
		last    int
	)
	save := func(_ context.Context, v int) error {
		mu.Lock()
		running++
		if running > 1 {
			overlap = true
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		running--
		last = v
		mu.Unlock()
		return nil
	}
	s := New(save, WithDelay(time.Millisecond))

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		_ = s.Schedule(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Flush(context.Background())
		}()
		time.Sleep(2 * time.Millisecond)
	}
	wg.Wait()
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Fatalf("saves overlapped")
	}
	if last != 10 {
		t.Fatalf("expected the last value to win, got %d", last)
	}
}

func TestTimerErrorsReachHandler(t *testing.T) {
	errs := make(chan error, 1)
	boom := errors.New("boom")
	s := New(func(context.Context, string) error { return boom },
		WithDelay(10*time.Millisecond),
		WithErrorHandler(func(err error) { errs <- err }))

	_ = s.Schedule("x")
	select {
	case err := <-errs:
		if !errors.Is(err, boom) {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("error handler was not called")
	}
}
