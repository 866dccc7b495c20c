package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"quizhost-service/internal/domain"
)

// StartedAttempt is what a participant receives when joining a session.
type StartedAttempt struct {
	QuizName    string
	SessionCode string
	AttemptID   string
	Questions   []domain.PublicQuestion
}

// Result is the participant's outcome. TotalQuestions is computed against the
// question set as it exists at query time, not at submission time, so the
// denominator shifts if the admin edits the quiz afterwards.
type Result struct {
	Score          int
	TotalQuestions int
}

// AttemptService governs the attempt state machine per (sessionCode, email):
// NO_ATTEMPT -> IN_PROGRESS -> SUBMITTED, with SUBMITTED terminal.
type AttemptService struct {
	quizzes  QuizStore
	attempts AttemptStore
	board    *ScoreboardHub
	clock    func() time.Time
}

// NewAttemptService wires the lifecycle against a store. hub may be nil when
// no live scoreboard is needed (tests, CLI tools).
func NewAttemptService(quizzes QuizStore, attempts AttemptStore, hub *ScoreboardHub) *AttemptService {
	return &AttemptService{quizzes: quizzes, attempts: attempts, board: hub, clock: time.Now}
}

// StartAttempt creates or resumes the participant's single attempt at a
// session. A session that exists but is inactive is indistinguishable from a
// missing one. Resuming an IN_PROGRESS attempt returns the same attempt ID and
// leaves any stored answers alone; a SUBMITTED attempt is a conflict.
func (s *AttemptService) StartAttempt(ctx context.Context, name, email, sessionCode string) (StartedAttempt, error) {
	if name == "" || email == "" || sessionCode == "" {
		return StartedAttempt{}, domain.Validationf("name, email and session code are required")
	}
	quiz, err := s.activeQuiz(ctx, sessionCode)
	if err != nil {
		return StartedAttempt{}, err
	}

	attempt, err := s.attempts.GetAttempt(ctx, sessionCode, email)
	switch {
	case err == nil:
		if attempt.Status == domain.AttemptSubmitted {
			return StartedAttempt{}, domain.ErrAlreadyAttempted
		}
	case errors.Is(err, domain.ErrAttemptNotFound):
		attempt, err = s.createAttempt(ctx, name, email, sessionCode)
		if err != nil {
			return StartedAttempt{}, err
		}
	default:
		return StartedAttempt{}, err
	}

	questions, err := s.quizzes.QuestionsBySession(ctx, sessionCode)
	if err != nil {
		return StartedAttempt{}, err
	}
	public := make([]domain.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return StartedAttempt{
		QuizName:    quiz.QuizName,
		SessionCode: sessionCode,
		AttemptID:   attempt.ID,
		Questions:   public,
	}, nil
}

// createAttempt inserts a fresh IN_PROGRESS attempt. The store enforces the
// (sessionCode, email) uniqueness, so a racing create loses cleanly; the loser
// re-reads and resumes the winner's attempt instead of erroring.
func (s *AttemptService) createAttempt(ctx context.Context, name, email, sessionCode string) (domain.Attempt, error) {
	now := s.clock()
	attempt := domain.Attempt{
		ID:          uuid.New().String(),
		SessionCode: sessionCode,
		Name:        name,
		Email:       email,
		Status:      domain.AttemptInProgress,
		Answers:     []domain.Answer{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.attempts.CreateAttempt(ctx, attempt)
	if err == nil {
		return attempt, nil
	}
	if !errors.Is(err, domain.ErrAttemptExists) {
		return domain.Attempt{}, err
	}
	existing, err := s.attempts.GetAttempt(ctx, sessionCode, email)
	if err != nil {
		return domain.Attempt{}, err
	}
	if existing.Status == domain.AttemptSubmitted {
		return domain.Attempt{}, domain.ErrAlreadyAttempted
	}
	return existing, nil
}

// SubmitQuiz grades the submitted answers and flips the attempt to SUBMITTED.
// The transition is one-way: once submitted, no IN_PROGRESS attempt matches
// and a resubmission fails with a not-found outcome.
func (s *AttemptService) SubmitQuiz(ctx context.Context, sessionCode, email string, answers []domain.Answer) ([]domain.Answer, error) {
	if sessionCode == "" || email == "" || answers == nil {
		return nil, domain.Validationf("session code, email and answers are required")
	}
	if _, err := s.activeQuiz(ctx, sessionCode); err != nil {
		return nil, err
	}

	attempt, err := s.attempts.GetAttempt(ctx, sessionCode, email)
	if errors.Is(err, domain.ErrAttemptNotFound) {
		return nil, domain.ErrNoActiveAttempt
	}
	if err != nil {
		return nil, err
	}
	if attempt.Status != domain.AttemptInProgress {
		return nil, domain.ErrNoActiveAttempt
	}

	score := s.grade(ctx, answers)
	attempt.Answers = answers
	attempt.Status = domain.AttemptSubmitted
	attempt.Score = &score
	attempt.UpdatedAt = s.clock()
	if err := s.attempts.UpdateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	s.publishScoreboard(ctx, sessionCode)
	return attempt.Answers, nil
}

// grade counts one point per answer whose question has an option matching the
// submitted text with isCorrect set. Missing questions and non-matching texts
// score zero without raising an error. Duplicate question IDs in the answer
// list are each evaluated on their own.
func (s *AttemptService) grade(ctx context.Context, answers []domain.Answer) int {
	score := 0
	for _, ans := range answers {
		question, err := s.quizzes.GetQuestion(ctx, ans.QuestionID)
		if err != nil {
			continue
		}
		for _, op := range question.Options {
			if op.IsCorrect && op.Text == ans.SelectedOption {
				score++
				break
			}
		}
	}
	return score
}

// GetResult returns the stored score together with the session's current
// question count, whatever the attempt's status.
func (s *AttemptService) GetResult(ctx context.Context, sessionCode, email string) (Result, error) {
	if sessionCode == "" || email == "" {
		return Result{}, domain.Validationf("session code and email are required")
	}
	attempt, err := s.attempts.GetAttempt(ctx, sessionCode, email)
	if err != nil {
		return Result{}, err
	}
	questions, err := s.quizzes.QuestionsBySession(ctx, sessionCode)
	if err != nil {
		return Result{}, err
	}
	score := 0
	if attempt.Score != nil {
		score = *attempt.Score
	}
	return Result{Score: score, TotalQuestions: len(questions)}, nil
}

// QuizName looks up the display name for a session code, active or not.
func (s *AttemptService) QuizName(ctx context.Context, sessionCode string) (string, error) {
	if sessionCode == "" {
		return "", domain.Validationf("session code is required")
	}
	quiz, err := s.quizzes.GetQuiz(ctx, sessionCode)
	if err != nil {
		return "", err
	}
	return quiz.QuizName, nil
}

// ListParticipants returns every attempt across sessions for the backoffice.
func (s *AttemptService) ListParticipants(ctx context.Context) ([]domain.Attempt, error) {
	return s.attempts.ListAttempts(ctx)
}

// Scoreboard builds the ordered results snapshot for one session: submitted
// attempts only, highest score first, earlier submission breaking ties.
func (s *AttemptService) Scoreboard(ctx context.Context, sessionCode string) (domain.Scoreboard, error) {
	if _, err := s.quizzes.GetQuiz(ctx, sessionCode); err != nil {
		return domain.Scoreboard{}, err
	}
	attempts, err := s.attempts.AttemptsBySession(ctx, sessionCode)
	if err != nil {
		return domain.Scoreboard{}, err
	}

	entries := make([]domain.ScoreboardEntry, 0, len(attempts))
	for _, a := range attempts {
		if a.Status != domain.AttemptSubmitted || a.Score == nil {
			continue
		}
		entries = append(entries, domain.ScoreboardEntry{
			Name:        a.Name,
			Email:       a.Email,
			Score:       *a.Score,
			SubmittedAt: a.UpdatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].SubmittedAt.Equal(entries[j].SubmittedAt) {
			return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
		}
		return entries[i].Name < entries[j].Name
	})
	return domain.Scoreboard{
		SessionCode: sessionCode,
		Entries:     entries,
		UpdatedAt:   s.clock(),
	}, nil
}

// activeQuiz resolves a session for participant-facing operations. Inactive
// sessions are reported exactly like missing ones.
func (s *AttemptService) activeQuiz(ctx context.Context, sessionCode string) (domain.QuizSession, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, sessionCode)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if !quiz.IsActive {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return quiz, nil
}

func (s *AttemptService) publishScoreboard(ctx context.Context, sessionCode string) {
	if s.board == nil {
		return
	}
	board, err := s.Scoreboard(ctx, sessionCode)
	if err != nil {
		return // best effort; the feed catches up on the next submission
	}
	s.board.Publish(sessionCode, board)
}
