package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	solveStarts    int
	solveCompletes int
	lastSolved     bool
}

func (h *recordingPipelineHooks) OnSolveStart(ctx context.Context, boardHash string, parallel bool) {
	h.solveStarts++
}

func (h *recordingPipelineHooks) OnSolveComplete(ctx context.Context, boardHash string, solved bool, hits int, d time.Duration, err error) {
	h.solveCompletes++
	h.lastSolved = solved
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) { h.misses++ }

func TestHookRegistration(t *testing.T) {
	defer Reset()

	ph := &recordingPipelineHooks{}
	ch := &recordingCacheHooks{}
	SetPipelineHooks(ph)
	SetCacheHooks(ch)

	ctx := context.Background()
	Pipeline().OnSolveStart(ctx, "hash", true)
	Pipeline().OnSolveComplete(ctx, "hash", true, 3, time.Second, nil)
	Cache().OnCacheHit(ctx, "solution")
	Cache().OnCacheMiss(ctx, "artifact")

	if ph.solveStarts != 1 || ph.solveCompletes != 1 {
		t.Errorf("solve events = (%d, %d), want (1, 1)", ph.solveStarts, ph.solveCompletes)
	}
	if !ph.lastSolved {
		t.Error("lastSolved = false, want true")
	}
	if ch.hits != 1 || ch.misses != 1 {
		t.Errorf("cache events = (%d, %d), want (1, 1)", ch.hits, ch.misses)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	defer Reset()

	ph := &recordingPipelineHooks{}
	SetPipelineHooks(ph)
	SetPipelineHooks(nil)

	Pipeline().OnSolveStart(context.Background(), "hash", false)
	if ph.solveStarts != 1 {
		t.Errorf("solveStarts = %d, want 1 (nil registration must not replace hooks)", ph.solveStarts)
	}
}

func TestResetRestoresNoops(t *testing.T) {
	ph := &recordingPipelineHooks{}
	SetPipelineHooks(ph)
	Reset()

	Pipeline().OnSolveStart(context.Background(), "hash", false)
	if ph.solveStarts != 0 {
		t.Errorf("solveStarts = %d, want 0 after Reset", ph.solveStarts)
	}
}
