package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%t err=%v", ok, err)
	}
	if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("expected hit v, got %q ok=%t err=%v", got, ok, err)
	}

	got[0] = 'x'
	again, _, _ := m.Get(ctx, "k")
	if string(again) != "v" {
		t.Fatalf("cached value was mutated through a returned slice: %q", again)
	}

	if err := m.Delete(ctx, "k", "unknown"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before ttl")
	}
	now = now.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("expected miss at ttl")
	}
}

func TestMemorySetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Set(ctx, "callsheet:p1:1", []byte("old"), time.Minute)
	m.Set(ctx, "forever", []byte("v"), 0)
	now = now.Add(2 * time.Minute)
	m.Set(ctx, "callsheet:p1:2", []byte("new"), time.Minute)

	if len(m.entries) != 2 {
		t.Fatalf("expected expired entry to be swept, have %d entries", len(m.entries))
	}
	if _, ok := m.entries["callsheet:p1:1"]; ok {
		t.Fatalf("expired entry still present")
	}
}
