package redis

import (
	"context"
	"testing"

	"scholarship-exam-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestStateStoreLanguagePreference(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewStateStore(newClient(mr))

	lang, err := store.Language(ctx)
	if err != nil || lang != "" {
		t.Fatalf("expected no saved preference, got %q err %v", lang, err)
	}

	if err := store.SetLanguage(ctx, domain.LanguageMalayalam); err != nil {
		t.Fatalf("set language: %v", err)
	}
	lang, err = store.Language(ctx)
	if err != nil {
		t.Fatalf("read language: %v", err)
	}
	if lang != domain.LanguageMalayalam {
		t.Fatalf("expected ml, got %q", lang)
	}
}

func TestStateStoreOutcomeCounters(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewStateStore(newClient(mr))

	_ = store.RecordOutcome(ctx, true)
	_ = store.RecordOutcome(ctx, false)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Wins != 1 {
		t.Fatalf("expected 2/1, got %+v", stats)
	}

	if err := store.ClearStats(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	stats, _ = store.Stats(ctx)
	if stats.Total != 0 || stats.Wins != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}
