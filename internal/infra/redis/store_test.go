package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizhost-service/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client), mr
}

func sampleQuiz(code string) domain.QuizSession {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.QuizSession{
		SessionCode:       code,
		QuizName:          "Sample",
		NumberOfQuestions: 1,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestQuizLifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	if err := store.CreateQuiz(ctx, sampleQuiz("Q1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !mr.Exists("quiz:Q1") {
		t.Fatalf("expected quiz document key")
	}
	if err := store.CreateQuiz(ctx, sampleQuiz("Q1")); !errors.Is(err, domain.ErrSessionCodeTaken) {
		t.Fatalf("expected code conflict, got %v", err)
	}

	quiz, err := store.GetQuiz(ctx, "Q1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	quiz.IsActive = false
	if err := store.UpdateQuiz(ctx, quiz); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	active, err := store.ListQuizzes(ctx, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active quizzes, got %d", len(active))
	}

	if err := store.DeleteQuiz(ctx, "Q1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.DeleteQuiz(ctx, "Q1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestQuestionsKeepAuthoredOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.CreateQuiz(ctx, sampleQuiz("ORD")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	questions := []domain.Question{
		{ID: "q-b", SessionCode: "ORD", QuestionText: "second"},
		{ID: "q-a", SessionCode: "ORD", QuestionText: "first"},
		{ID: "q-c", SessionCode: "ORD", QuestionText: "third"},
	}
	if err := store.InsertQuestions(ctx, questions); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := store.QuestionsBySession(ctx, "ORD")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 || got[0].ID != "q-b" || got[2].ID != "q-c" {
		t.Fatalf("expected authored order preserved, got %+v", got)
	}

	if err := store.DeleteQuestion(ctx, "q-a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err = store.QuestionsBySession(ctx, "ORD")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "q-b" || got[1].ID != "q-c" {
		t.Fatalf("expected q-a removed from order, got %+v", got)
	}

	removed, err := store.DeleteQuestionsBySession(ctx, "ORD")
	if err != nil {
		t.Fatalf("cascade failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
}

func TestCreateAttemptIsAtomic(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	attempt := domain.Attempt{
		ID:          "a1",
		SessionCode: "RACE",
		Name:        "Alice",
		Email:       "alice@example.com",
		Status:      domain.AttemptInProgress,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := store.CreateAttempt(ctx, attempt); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dup := attempt
	dup.ID = "a2"
	if err := store.CreateAttempt(ctx, dup); !errors.Is(err, domain.ErrAttemptExists) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	got, err := store.GetAttempt(ctx, "RACE", "alice@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != "a1" {
		t.Fatalf("expected first writer to win, got %s", got.ID)
	}
}

func TestAttemptUpdateAndListing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for i, email := range []string{"a@example.com", "b@example.com"} {
		attempt := domain.Attempt{
			ID:          email,
			SessionCode: "LIST",
			Email:       email,
			Status:      domain.AttemptInProgress,
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateAttempt(ctx, attempt); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	attempt, err := store.GetAttempt(ctx, "LIST", "a@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	score := 3
	attempt.Status = domain.AttemptSubmitted
	attempt.Score = &score
	if err := store.UpdateAttempt(ctx, attempt); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	bySession, err := store.AttemptsBySession(ctx, "LIST")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bySession) != 2 || bySession[0].Email != "a@example.com" {
		t.Fatalf("expected 2 ordered attempts, got %+v", bySession)
	}
	if bySession[0].Score == nil || *bySession[0].Score != 3 {
		t.Fatalf("expected persisted score, got %+v", bySession[0].Score)
	}

	all, err := store.ListAttempts(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 attempts overall, got %d", len(all))
	}
}

func TestAdminRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	admin := domain.Admin{Email: "admin@example.com", PasswordHash: "$2a$10$hash", Role: "Admin"}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.CreateAdmin(ctx, admin); !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	got, err := store.GetAdmin(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PasswordHash != admin.PasswordHash {
		t.Fatalf("expected hash to round-trip, got %q", got.PasswordHash)
	}
	if _, err := store.GetAdmin(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
