package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarship-exam-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(sampleBank()),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.Questions(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.Questions(context.Background()); err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositorySubjects(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(sampleBank()), time.Minute)

	subjects, err := repo.Subjects(context.Background())
	if err != nil {
		t.Fatalf("subjects: %v", err)
	}
	want := []string{"Maths", "English"}
	if len(subjects) != len(want) {
		t.Fatalf("expected %v, got %v", want, subjects)
	}
	for i := range want {
		if subjects[i] != want[i] {
			t.Fatalf("expected first-seen order %v, got %v", want, subjects)
		}
	}
}

func TestStaticLoaderRejectsEmptyBank(t *testing.T) {
	_, err := NewStaticQuestionLoader(nil).LoadQuestions(context.Background())
	if !errors.Is(err, domain.ErrQuestionSource) {
		t.Fatalf("expected ErrQuestionSource, got %v", err)
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
			ID: "m2", Subject: "Maths", Chapter: 2, Prompt: "3x3?",
			Options: []domain.Option{{Text: "6"}, {Text: "9"}, {Text: "12"}, {Text: "3"}},
			Answer:  "9",
		},
		{
			ID: "e1", Subject: "English", Chapter: 1, Prompt: "Plural of child?",
			Options: []domain.Option{{Text: "childs"}, {Text: "children"}, {Text: "childes"}, {Text: "childen"}},
			Answer:  "children",
		},
	}
}
