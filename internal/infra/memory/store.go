// Package memory provides a map-backed document store used by tests and for
// dependency-free local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"quizhost-service/internal/domain"
)

// Store keeps every record kind in process memory. All methods are safe for
// concurrent use; the single mutex makes creates atomic, which is what
// upholds the session-code and (sessionCode, email) uniqueness under races.
type Store struct {
	mu            sync.RWMutex
	quizzes       map[string]domain.QuizSession
	questions     map[string]domain.Question
	questionOrder map[string][]string // sessionCode -> question IDs, insertion order
	attempts      map[string]domain.Attempt
	admins        map[string]domain.Admin
}

func NewStore() *Store {
	return &Store{
		quizzes:       make(map[string]domain.QuizSession),
		questions:     make(map[string]domain.Question),
		questionOrder: make(map[string][]string),
		attempts:      make(map[string]domain.Attempt),
		admins:        make(map[string]domain.Admin),
	}
}

func attemptKey(sessionCode, email string) string {
	return sessionCode + "\x00" + email
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.SessionCode]; ok {
		return domain.ErrSessionCodeTaken
	}
	s.quizzes[quiz.SessionCode] = quiz
	return nil
}

func (s *Store) GetQuiz(_ context.Context, sessionCode string) (domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[sessionCode]
	if !ok {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return quiz, nil
}

func (s *Store) ListQuizzes(_ context.Context, activeOnly bool) ([]domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizSession, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		if activeOnly && !quiz.IsActive {
			continue
		}
		out = append(out, quiz)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SessionCode < out[j].SessionCode
	})
	return out, nil
}

func (s *Store) UpdateQuiz(_ context.Context, quiz domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.SessionCode]; !ok {
		return domain.ErrSessionNotFound
	}
	s.quizzes[quiz.SessionCode] = quiz
	return nil
}

func (s *Store) DeleteQuiz(_ context.Context, sessionCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[sessionCode]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.quizzes, sessionCode)
	return nil
}

func (s *Store) InsertQuestions(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.ID] = cloneQuestion(q)
		s.questionOrder[q.SessionCode] = append(s.questionOrder[q.SessionCode], q.ID)
	}
	return nil
}

func (s *Store) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s *Store) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	order := s.questionOrder[q.SessionCode]
	for i, qid := range order {
		if qid == id {
			s.questionOrder[q.SessionCode] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) QuestionsBySession(_ context.Context, sessionCode string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.questionOrder[sessionCode]
	out := make([]domain.Question, 0, len(order))
	for _, id := range order {
		if q, ok := s.questions[id]; ok {
			out = append(out, cloneQuestion(q))
		}
	}
	return out, nil
}

func (s *Store) DeleteQuestionsBySession(_ context.Context, sessionCode string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.questionOrder[sessionCode]
	removed := 0
	for _, id := range order {
		if _, ok := s.questions[id]; ok {
			delete(s.questions, id)
			removed++
		}
	}
	delete(s.questionOrder, sessionCode)
	return removed, nil
}

func (s *Store) CreateAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptKey(attempt.SessionCode, attempt.Email)
	if _, ok := s.attempts[key]; ok {
		return domain.ErrAttemptExists
	}
	s.attempts[key] = cloneAttempt(attempt)
	return nil
}

func (s *Store) GetAttempt(_ context.Context, sessionCode, email string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptKey(sessionCode, email)]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return cloneAttempt(attempt), nil
}

func (s *Store) UpdateAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptKey(attempt.SessionCode, attempt.Email)
	if _, ok := s.attempts[key]; !ok {
		return domain.ErrAttemptNotFound
	}
	s.attempts[key] = cloneAttempt(attempt)
	return nil
}

func (s *Store) AttemptsBySession(_ context.Context, sessionCode string) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, attempt := range s.attempts {
		if attempt.SessionCode == sessionCode {
			out = append(out, cloneAttempt(attempt))
		}
	}
	sortAttempts(out)
	return out, nil
}

func (s *Store) ListAttempts(_ context.Context) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Attempt, 0, len(s.attempts))
	for _, attempt := range s.attempts {
		out = append(out, cloneAttempt(attempt))
	}
	sortAttempts(out)
	return out, nil
}

func (s *Store) CreateAdmin(_ context.Context, admin domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[admin.Email]; ok {
		return domain.ErrAdminExists
	}
	s.admins[admin.Email] = admin
	return nil
}

func (s *Store) GetAdmin(_ context.Context, email string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[email]
	if !ok {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	return admin, nil
}

// Clones keep callers from mutating shared slices through returned records.

func cloneQuestion(q domain.Question) domain.Question {
	out := q
	out.Options = append([]domain.Option(nil), q.Options...)
	return out
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	out := a
	out.Answers = append([]domain.Answer(nil), a.Answers...)
	if a.Score != nil {
		score := *a.Score
		out.Score = &score
	}
	return out
}

func sortAttempts(attempts []domain.Attempt) {
	sort.Slice(attempts, func(i, j int) bool {
		if !attempts[i].CreatedAt.Equal(attempts[j].CreatedAt) {
			return attempts[i].CreatedAt.Before(attempts[j].CreatedAt)
		}
		return attempts[i].Email < attempts[j].Email
	})
}
