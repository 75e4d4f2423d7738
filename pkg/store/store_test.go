package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func testRun(id string, solved bool) *Run {
	return &Run{
		ID:         id,
		BoardHash:  "hash-" + id,
		Solved:     solved,
		HitCount:   2,
		Convention: "wall",
		Mode:       "single",
		ElapsedMS:  10,
	}
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	run := testRun("run-1", true)
	if err := s.Insert(ctx, run); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if run.CreatedAt.IsZero() {
		t.Error("Insert should set CreatedAt")
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatal("Get = nil, want run")
	}
	if got.BoardHash != "hash-run-1" || !got.Solved {
		t.Errorf("Get = %+v", got)
	}

	// Missing runs return nil, nil
	missing, err := s.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if missing != nil {
		t.Error("Get of missing run should return nil")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Insert(ctx, testRun("run-1", true)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	first, _ := s.Get(ctx, "run-1")
	first.HitCount = 99

	second, _ := s.Get(ctx, "run-1")
	if second.HitCount == 99 {
		t.Error("mutating a returned run must not affect the store")
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 0; i < 5; i++ {
		run := testRun(fmt.Sprintf("run-%d", i), i%2 == 0)
		run.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := s.Insert(ctx, run); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}

	runs, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(runs))
	}
	for i, want := range []string{"run-4", "run-3", "run-2"} {
		if runs[i].ID != want {
			t.Errorf("List[%d].ID = %s, want %s", i, runs[i].ID, want)
		}
	}

	// limit <= 0 falls back to the default
	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("len(List) = %d, want 5", len(all))
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Insert(ctx, testRun("run-1", true)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := s.Delete(ctx, "run-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got, _ := s.Get(ctx, "run-1"); got != nil {
		t.Error("run still present after Delete")
	}
	if err := s.Delete(ctx, "run-1"); err != ErrNotFound {
		t.Errorf("Delete of missing run = %v, want ErrNotFound", err)
	}

	runs, _ := s.List(ctx, 0)
	if len(runs) != 0 {
		t.Errorf("len(List) = %d after delete, want 0", len(runs))
	}
}
