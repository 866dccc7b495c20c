package app

import (
	"context"

	"quizhost-service/internal/domain"
)

// QuizStore persists quiz sessions and their questions.
// Implementations must return domain.ErrSessionCodeTaken when CreateQuiz hits
// an existing code, and domain.ErrSessionNotFound / domain.ErrQuestionNotFound
// on missing lookups. QuestionsBySession keeps insertion order.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.QuizSession) error
	GetQuiz(ctx context.Context, sessionCode string) (domain.QuizSession, error)
	ListQuizzes(ctx context.Context, activeOnly bool) ([]domain.QuizSession, error)
	UpdateQuiz(ctx context.Context, quiz domain.QuizSession) error
	DeleteQuiz(ctx context.Context, sessionCode string) error

	InsertQuestions(ctx context.Context, questions []domain.Question) error
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	UpdateQuestion(ctx context.Context, question domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	QuestionsBySession(ctx context.Context, sessionCode string) ([]domain.Question, error)
	DeleteQuestionsBySession(ctx context.Context, sessionCode string) (int, error)
}

// AttemptStore persists attempts. CreateAttempt must enforce the
// (sessionCode, email) uniqueness atomically and return domain.ErrAttemptExists
// when the pair already has an attempt; two racing creates must never both win.
type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt domain.Attempt) error
	GetAttempt(ctx context.Context, sessionCode, email string) (domain.Attempt, error)
	UpdateAttempt(ctx context.Context, attempt domain.Attempt) error
	AttemptsBySession(ctx context.Context, sessionCode string) ([]domain.Attempt, error)
	ListAttempts(ctx context.Context) ([]domain.Attempt, error)
}

// AdminStore persists admin accounts keyed by email.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin domain.Admin) error
	GetAdmin(ctx context.Context, email string) (domain.Admin, error)
}

// Store is the full document store; every backend implements all three kinds.
type Store interface {
	QuizStore
	AttemptStore
	AdminStore
}
