package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizhost-service/internal/domain"
)

func TestCreateQuizEnforcesUniqueCode(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	quiz := domain.QuizSession{SessionCode: "Q1", QuizName: "First", IsActive: true}
	if err := store.CreateQuiz(ctx, quiz); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.CreateQuiz(ctx, quiz); !errors.Is(err, domain.ErrSessionCodeTaken) {
		t.Fatalf("expected code conflict, got %v", err)
	}
}

func TestQuestionOrderSurvivesDeletes(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.InsertQuestions(ctx, []domain.Question{
		{ID: "q1", SessionCode: "S"},
		{ID: "q2", SessionCode: "S"},
		{ID: "q3", SessionCode: "S"},
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := store.DeleteQuestion(ctx, "q2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := store.QuestionsBySession(ctx, "S")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "q1" || got[1].ID != "q3" {
		t.Fatalf("expected insertion order without q2, got %+v", got)
	}
}

func TestReturnedRecordsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.InsertQuestions(ctx, []domain.Question{
		{ID: "q1", SessionCode: "S", Options: []domain.Option{{Text: "a", IsCorrect: true}}},
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	first, err := store.GetQuestion(ctx, "q1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	first.Options[0].Text = "mutated"

	second, err := store.GetQuestion(ctx, "q1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if second.Options[0].Text != "a" {
		t.Fatalf("stored question was mutated through a returned copy")
	}
}

func TestConcurrentCreateAttemptSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan string, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			attempt := domain.Attempt{
				ID:          string(rune('a' + id)),
				SessionCode: "RACE",
				Email:       "alice@example.com",
				Status:      domain.AttemptInProgress,
				CreatedAt:   time.Now(),
			}
			if err := store.CreateAttempt(ctx, attempt); err == nil {
				wins <- attempt.ID
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for id := range wins {
		winners = append(winners, id)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winning create, got %d", len(winners))
	}

	got, err := store.GetAttempt(ctx, "RACE", "alice@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != winners[0] {
		t.Fatalf("stored attempt %s does not match winner %s", got.ID, winners[0])
	}
}

func TestListQuizzesOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	base := time.Now()
	for i, code := range []string{"C", "A", "B"} {
		quiz := domain.QuizSession{
			SessionCode: code,
			IsActive:    code != "B",
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateQuiz(ctx, quiz); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	all, err := store.ListQuizzes(ctx, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 || all[0].SessionCode != "C" || all[2].SessionCode != "B" {
		t.Fatalf("expected creation order, got %+v", all)
	}

	active, err := store.ListQuizzes(ctx, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active quizzes, got %d", len(active))
	}
}
