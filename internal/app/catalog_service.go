package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quizhost-service/internal/domain"
)

// QuestionInput is an authored question as received from the admin UI.
// A non-empty ID targets an existing question during edits.
type QuestionInput struct {
	ID           string
	QuestionText string
	Options      []domain.Option
}

// CatalogService implements the admin-facing quiz authoring use cases.
type CatalogService struct {
	store QuizStore
	clock func() time.Time
}

func NewCatalogService(store QuizStore) *CatalogService {
	return &CatalogService{store: store, clock: time.Now}
}

// CreateQuiz persists a new session plus its initial question set. The
// effective question count is the list length if questions are supplied,
// otherwise the numeric count; zero is rejected.
func (s *CatalogService) CreateQuiz(ctx context.Context, sessionCode, quizName string, numberOfQuestions int, questions []QuestionInput) (domain.QuizSession, []domain.Question, error) {
	if sessionCode == "" || quizName == "" {
		return domain.QuizSession{}, nil, domain.Validationf("session code and quiz name are required")
	}
	total := len(questions)
	if total == 0 {
		total = numberOfQuestions
	}
	if total <= 0 {
		return domain.QuizSession{}, nil, domain.Validationf("at least one question is required")
	}

	now := s.clock()
	quiz := domain.QuizSession{
		SessionCode:       sessionCode,
		QuizName:          quizName,
		NumberOfQuestions: total,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return domain.QuizSession{}, nil, err
	}

	created := s.buildQuestions(sessionCode, questions)
	if len(created) > 0 {
		if err := s.store.InsertQuestions(ctx, created); err != nil {
			return domain.QuizSession{}, nil, err
		}
	}
	return quiz, created, nil
}

// AddQuestions appends questions to an existing session and returns the full
// updated question set.
func (s *CatalogService) AddQuestions(ctx context.Context, sessionCode string, questions []QuestionInput) ([]domain.Question, error) {
	if sessionCode == "" || len(questions) == 0 {
		return nil, domain.Validationf("session code and questions are required")
	}
	quiz, err := s.store.GetQuiz(ctx, sessionCode)
	if err != nil {
		return nil, err
	}

	if err := s.store.InsertQuestions(ctx, s.buildQuestions(sessionCode, questions)); err != nil {
		return nil, err
	}
	all, err := s.store.QuestionsBySession(ctx, sessionCode)
	if err != nil {
		return nil, err
	}
	if err := s.refreshQuestionCount(ctx, quiz, len(all)); err != nil {
		return nil, err
	}
	return all, nil
}

// ListQuizzes returns every session, newest first per the store's ordering.
func (s *CatalogService) ListQuizzes(ctx context.Context) ([]domain.QuizSession, error) {
	return s.store.ListQuizzes(ctx, false)
}

// ListActiveSessions returns only sessions still open for participants.
func (s *CatalogService) ListActiveSessions(ctx context.Context) ([]domain.QuizSession, error) {
	return s.store.ListQuizzes(ctx, true)
}

// EditQuiz applies partial updates to a session and upserts its questions.
// quizName and isActive only override when truthy: an empty name and a false
// isActive leave the stored values untouched. That means EditQuiz can reopen a
// session but never close one; EndSession is the only path to isActive=false.
func (s *CatalogService) EditQuiz(ctx context.Context, sessionCode, quizName string, isActive bool, questions []QuestionInput) (domain.QuizSession, []domain.Question, error) {
	if sessionCode == "" {
		return domain.QuizSession{}, nil, domain.Validationf("session code is required")
	}
	quiz, err := s.store.GetQuiz(ctx, sessionCode)
	if err != nil {
		return domain.QuizSession{}, nil, err
	}

	if quizName != "" {
		quiz.QuizName = quizName
	}
	if isActive {
		quiz.IsActive = true
	}

	for _, in := range questions {
		if in.ID != "" {
			existing, err := s.store.GetQuestion(ctx, in.ID)
			if errors.Is(err, domain.ErrNotFound) {
				continue // stale ID from the client; skip rather than fail the edit
			}
			if err != nil {
				return domain.QuizSession{}, nil, err
			}
			existing.QuestionText = in.QuestionText
			existing.Options = in.Options
			if err := s.store.UpdateQuestion(ctx, existing); err != nil {
				return domain.QuizSession{}, nil, err
			}
			continue
		}
		fresh := s.buildQuestions(sessionCode, []QuestionInput{in})
		if err := s.store.InsertQuestions(ctx, fresh); err != nil {
			return domain.QuizSession{}, nil, err
		}
	}

	all, err := s.store.QuestionsBySession(ctx, sessionCode)
	if err != nil {
		return domain.QuizSession{}, nil, err
	}
	quiz.NumberOfQuestions = len(all)
	quiz.UpdatedAt = s.clock()
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return domain.QuizSession{}, nil, err
	}
	return quiz, all, nil
}

// DeleteQuiz removes a session and cascades to its questions, returning the
// deleted session and the number of questions removed with it.
func (s *CatalogService) DeleteQuiz(ctx context.Context, sessionCode string) (domain.QuizSession, int, error) {
	if sessionCode == "" {
		return domain.QuizSession{}, 0, domain.Validationf("session code is required")
	}
	quiz, err := s.store.GetQuiz(ctx, sessionCode)
	if err != nil {
		return domain.QuizSession{}, 0, err
	}
	if err := s.store.DeleteQuiz(ctx, sessionCode); err != nil {
		return domain.QuizSession{}, 0, err
	}
	removed, err := s.store.DeleteQuestionsBySession(ctx, sessionCode)
	if err != nil {
		return domain.QuizSession{}, 0, err
	}
	return quiz, removed, nil
}

// DeleteQuestion removes a single question and refreshes the owning session's
// question count.
func (s *CatalogService) DeleteQuestion(ctx context.Context, questionID string) error {
	if questionID == "" {
		return domain.Validationf("question id is required")
	}
	question, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}

	quiz, err := s.store.GetQuiz(ctx, question.SessionCode)
	if errors.Is(err, domain.ErrNotFound) {
		return nil // orphaned question; nothing left to recount
	}
	if err != nil {
		return err
	}
	remaining, err := s.store.QuestionsBySession(ctx, question.SessionCode)
	if err != nil {
		return err
	}
	return s.refreshQuestionCount(ctx, quiz, len(remaining))
}

// EndSession closes a session to new participants. Ending an already-ended
// session is a no-op success.
func (s *CatalogService) EndSession(ctx context.Context, sessionCode string) (domain.QuizSession, error) {
	if sessionCode == "" {
		return domain.QuizSession{}, domain.Validationf("session code is required")
	}
	quiz, err := s.store.GetQuiz(ctx, sessionCode)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if !quiz.IsActive {
		return quiz, nil
	}
	quiz.IsActive = false
	quiz.UpdatedAt = s.clock()
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return domain.QuizSession{}, err
	}
	return quiz, nil
}

// ViewQuestions returns a session's questions verbatim, correctness flags
// included. A deleted or unknown session yields an empty set, not an error, so
// the admin UI can poll it safely.
func (s *CatalogService) ViewQuestions(ctx context.Context, sessionCode string) ([]domain.Question, error) {
	return s.store.QuestionsBySession(ctx, sessionCode)
}

func (s *CatalogService) buildQuestions(sessionCode string, inputs []QuestionInput) []domain.Question {
	out := make([]domain.Question, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, domain.Question{
			ID:           uuid.New().String(),
			SessionCode:  sessionCode,
			QuestionText: in.QuestionText,
			Options:      in.Options,
			CreatedAt:    s.clock(),
		})
	}
	return out
}

func (s *CatalogService) refreshQuestionCount(ctx context.Context, quiz domain.QuizSession, count int) error {
	quiz.NumberOfQuestions = count
	quiz.UpdatedAt = s.clock()
	return s.store.UpdateQuiz(ctx, quiz)
}
