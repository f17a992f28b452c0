package lifecycle_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/trendr/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()

	var started atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			started.Add(1)
		})
	}

	if lc.Ready() {
		t.Error("ready before WaitForStartup")
	}

	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}
	if got := started.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if lc.Ready() {
		t.Error("ready after Shutdown")
	}
}

func TestShutdownDrainsHooksAndLoops(t *testing.T) {
	lc := lifecycle.New()

	var cleaned, looped atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})
	lc.Go(func(ctx context.Context) {
		<-ctx.Done()
		looped.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
	if !looped.Load() {
		t.Error("background loop did not drain")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.Go(func(ctx context.Context) {
		<-ctx.Done()
		time.Sleep(500 * time.Millisecond)
	})

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
}
