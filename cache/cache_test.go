package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)) }

func TestRegistry_FlushAllCallsEveryFlusher(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry(WithConcurrency(2))
	for _, name := range []string{"render", "page", "config"} {
		r.MustAdd(name, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}
	if err := r.FlushAll(context.Background()); err != nil {
		t.Fatalf("FlushAll: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
	if got, want := r.Names(), []string{"render", "page", "config"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names: got %v want %v", got, want)
	}
}

func TestRegistry_FlushAllReportsEveryFailure(t *testing.T) {
	e1 := errors.New("e1")
	e2 := errors.New("e2")
	var okCalled atomic.Bool
	r := NewRegistry(WithLogger(quietLogger()), WithConcurrency(0))
	r.MustAdd("a", func(context.Context) error { return e1 })
	r.MustAdd("b", func(context.Context) error { return e2 })
	r.MustAdd("c", func(context.Context) error { panic("boom") })
	r.MustAdd("d", func(context.Context) error { okCalled.Store(true); return nil })

	err := r.FlushAll(context.Background())
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected both errors, got %v", err)
	}
	if !okCalled.Load() {
		t.Fatalf("a failing flusher must not stop the others")
	}
}

func TestRegistry_AddValidates(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(" ", func(context.Context) error { return nil }); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	r.MustAdd("x", func(context.Context) error { return nil })
	if err := r.Add("x", func(context.Context) error { return nil }); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestMemory_GetSetFlush(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewMemory[string, int](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expiry")
	}

	c.Set("b", 2)
	r := NewRegistry()
	r.MustAdd("memory", c.Flush)
	if err := r.FlushAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after flush, got %d", c.Len())
	}
}
