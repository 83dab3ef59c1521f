package redis

import (
	"context"
	"testing"
	"time"

	"scholarship-exam-service/internal/domain"
	"scholarship-exam-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(sampleBank()),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	bank, err := repo.Questions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(bank) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(bank))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("exam:questions") {
		t.Fatalf("expected bank cached in redis")
	}

	// Second call should hit the redis cache, loader not incremented.
	if _, err := repo.Questions(context.Background()); err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleBank() []domain.Question {
	return []domain.Question{
		{
			ID: "m1", Subject: "Maths", Chapter: 1, Prompt: "2+2?",
			Options: []domain.Option{{Text: "3"}, {Text: "4"}, {Text: "5"}, {Text: "6"}},
			Answer:  "4",
		},
		{
			ID: "e1", Subject: "English", Chapter: 1, Prompt: "Plural of child?",
			Options: []domain.Option{{Text: "childs"}, {Text: "children"}, {Text: "childes"}, {Text: "childen"}},
			Answer:  "children",
		},
	}
}
