// Package postgres implements the document store on Postgres. Records live in
// one JSONB column per table; unique constraints back the session-code and
// (session_code, email) invariants.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizhost-service/internal/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.QuizSession) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO quizzes (session_code, data) VALUES ($1, $2) ON CONFLICT (session_code) DO NOTHING`,
		quiz.SessionCode, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionCodeTaken
	}
	return nil
}

func (s *Store) GetQuiz(ctx context.Context, sessionCode string) (domain.QuizSession, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE session_code=$1`, sessionCode).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, err
	}
	var quiz domain.QuizSession
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.QuizSession{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) ListQuizzes(ctx context.Context, activeOnly bool) ([]domain.QuizSession, error) {
	query := `SELECT data FROM quizzes ORDER BY pos`
	if activeOnly {
		query = `SELECT data FROM quizzes WHERE (data->>'isActive')::boolean ORDER BY pos`
	}
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuizSession
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var quiz domain.QuizSession
		if err := json.Unmarshal(raw, &quiz); err != nil {
			return nil, fmt.Errorf("unmarshal quiz: %w", err)
		}
		out = append(out, quiz)
	}
	return out, rows.Err()
}

func (s *Store) UpdateQuiz(ctx context.Context, quiz domain.QuizSession) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE quizzes SET data=$2 WHERE session_code=$1`, quiz.SessionCode, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) DeleteQuiz(ctx context.Context, sessionCode string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE session_code=$1`, sessionCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question: %w", err)
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO questions (id, session_code, data) VALUES ($1, $2, $3)`,
			q.ID, q.SessionCode, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM questions WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	var question domain.Question
	if err := json.Unmarshal(raw, &question); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question: %w", err)
	}
	return question, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question domain.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE questions SET data=$2 WHERE id=$1`, question.ID, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) QuestionsBySession(ctx context.Context, sessionCode string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM questions WHERE session_code=$1 ORDER BY pos`, sessionCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var question domain.Question
		if err := json.Unmarshal(raw, &question); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		out = append(out, question)
	}
	return out, rows.Err()
}

func (s *Store) DeleteQuestionsBySession(ctx context.Context, sessionCode string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE session_code=$1`, sessionCode)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) CreateAttempt(ctx context.Context, attempt domain.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO attempts (session_code, email, data) VALUES ($1, $2, $3) ON CONFLICT (session_code, email) DO NOTHING`,
		attempt.SessionCode, attempt.Email, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttemptExists
	}
	return nil
}

func (s *Store) GetAttempt(ctx context.Context, sessionCode, email string) (domain.Attempt, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM attempts WHERE session_code=$1 AND email=$2`, sessionCode, email).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	return unmarshalAttempt(raw)
}

func (s *Store) UpdateAttempt(ctx context.Context, attempt domain.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE attempts SET data=$3 WHERE session_code=$1 AND email=$2`,
		attempt.SessionCode, attempt.Email, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

func (s *Store) AttemptsBySession(ctx context.Context, sessionCode string) ([]domain.Attempt, error) {
	return s.queryAttempts(ctx, `SELECT data FROM attempts WHERE session_code=$1 ORDER BY pos`, sessionCode)
}

func (s *Store) ListAttempts(ctx context.Context) ([]domain.Attempt, error) {
	return s.queryAttempts(ctx, `SELECT data FROM attempts ORDER BY pos`)
}

func (s *Store) queryAttempts(ctx context.Context, query string, args ...any) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attempt
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		attempt, err := unmarshalAttempt(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, attempt)
	}
	return out, rows.Err()
}

func (s *Store) CreateAdmin(ctx context.Context, admin domain.Admin) error {
	data, err := json.Marshal(adminDoc{Email: admin.Email, PasswordHash: admin.PasswordHash, Role: admin.Role})
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO admins (email, data) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
		admin.Email, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAdminExists
	}
	return nil
}

func (s *Store) GetAdmin(ctx context.Context, email string) (domain.Admin, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM admins WHERE email=$1`, email).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	if err != nil {
		return domain.Admin{}, err
	}
	var doc adminDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Admin{}, fmt.Errorf("unmarshal admin: %w", err)
	}
	return domain.Admin{Email: doc.Email, PasswordHash: doc.PasswordHash, Role: doc.Role}, nil
}

type adminDoc struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

func unmarshalAttempt(raw []byte) (domain.Attempt, error) {
	var attempt domain.Attempt
	if err := json.Unmarshal(raw, &attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal attempt: %w", err)
	}
	return attempt, nil
}
