package ledger_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"coderdist/internal/ledger"
	"coderdist/internal/services"
	"coderdist/internal/testsupport"
)

func sampleAssignments() []ledger.Assignment {
	return []ledger.Assignment{
		{ID: 2, Coder: 1, Title: "B", Source: "Vox"},
		{ID: 1, Coder: 1, Title: "A", Source: "Reuters"},
		{ID: 3, Coder: 2, Title: "A", Source: "Reuters"},
	}
}

func TestRecordRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	run := &ledger.Run{
		Seed:             math.MaxUint64,
		Coders:           2,
		CodersPerArticle: 2,
		FirstID:          1,
		Articles:         2,
		CorpusDir:        cfg.Paths.CorpusDir,
		OutputDir:        cfg.Paths.OutputDir,
	}
	if err := store.RecordRun(ctx, run, sampleAssignments()); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if run.ID == "" || run.Status != ledger.StatusStarted || run.Assignments != 3 {
		t.Fatalf("run not filled in: %#v", run)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Seed != math.MaxUint64 {
		t.Fatalf("seed = %d, want max uint64", fetched.Seed)
	}
	if fetched.CorpusDir != cfg.Paths.CorpusDir || fetched.Assignments != 3 || !fetched.FinishedAt.IsZero() {
		t.Fatalf("unexpected run %#v", fetched)
	}

	assignments, err := store.Assignments(ctx, run.ID)
	if err != nil {
		t.Fatalf("Assignments failed: %v", err)
	}
	if len(assignments) != 3 || assignments[0].ID != 1 || assignments[2].ID != 3 {
		t.Fatalf("assignments not in id order: %#v", assignments)
	}
	if assignments[1].Title != "B" || assignments[1].Source != "Vox" {
		t.Fatalf("unexpected assignment %#v", assignments[1])
	}
}

func TestFinishRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	run := &ledger.Run{Seed: 7, Coders: 2, CodersPerArticle: 1, FirstID: 1}
	if err := store.RecordRun(ctx, run, nil); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, ledger.StatusFailed, "latexmk exited 12"); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Status != ledger.StatusFailed || fetched.ErrorMessage != "latexmk exited 12" || fetched.FinishedAt.IsZero() {
		t.Fatalf("unexpected run %#v", fetched)
	}

	if err := store.FinishRun(ctx, "missing", ledger.StatusCompleted, ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := &ledger.Run{ID: id, Seed: uint64(i + 1), Coders: 1, CodersPerArticle: 1, FirstID: 1, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := store.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("RecordRun %s failed: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	var ids []string
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	if strings.Join(ids, ",") != "run-c,run-b,run-a" {
		t.Fatalf("unexpected order %v", ids)
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(limited))
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"abc123", "abd456"} {
		if err := store.RecordRun(ctx, &ledger.Run{ID: id, Coders: 1, CodersPerArticle: 1, FirstID: 1}, nil); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	run, err := store.GetRun(ctx, "abc")
	if err != nil || run.ID != "abc123" {
		t.Fatalf("GetRun(abc) = %#v, %v", run, err)
	}
	if _, err := store.GetRun(ctx, "ab"); !errors.Is(err, ledger.ErrAmbiguousRun) {
		t.Fatalf("expected ambiguous prefix, got %v", err)
	}
	if _, err := store.GetRun(ctx, "zzz"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.GetRun(ctx, "a_c"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("underscore must match literally, got %v", err)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.RecordRun(ctx, &ledger.Run{ID: "keep", Coders: 1, CodersPerArticle: 1, FirstID: 1}, nil); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenLedger(t, cfg)
	if _, err := second.GetRun(ctx, "keep"); err != nil {
		t.Fatalf("run lost across reopen: %v", err)
	}
	if !strings.HasSuffix(second.Path(), "ledger.db") {
		t.Fatalf("unexpected path %q", second.Path())
	}
}

func TestRecordRunRejectsDuplicateAssignmentIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	dup := []ledger.Assignment{{ID: 1, Coder: 1, Title: "A", Source: "Vox"}, {ID: 1, Coder: 2, Title: "A", Source: "Vox"}}
	if err := store.RecordRun(ctx, &ledger.Run{ID: "dup", Coders: 2, CodersPerArticle: 2, FirstID: 1}, dup); err == nil {
		t.Fatal("expected duplicate assignment id to fail")
	}
	if _, err := store.GetRun(ctx, "dup"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("failed run must roll back, got %v", err)
	}
}
