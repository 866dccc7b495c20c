// Package redis implements the document store on Redis. Every record is one
// JSON value; SETNX gives the atomic create-if-absent that backs the session
// code and (sessionCode, email) uniqueness constraints.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"quizhost-service/internal/domain"
)

// Key layout:
//
//	quiz:{code}              quiz session document
//	quiz:codes               set of all session codes
//	question:{id}            question document
//	quiz:{code}:questions    list of question IDs, authored order
//	attempt:{code}:{email}   attempt document (SETNX-created)
//	quiz:{code}:attempts     set of participant emails
//	admin:{email}            admin document
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func quizKey(code string) string           { return "quiz:" + code }
func questionKey(id string) string         { return "question:" + id }
func questionsKey(code string) string      { return "quiz:" + code + ":questions" }
func attemptKey(code, email string) string { return "attempt:" + code + ":" + email }
func attemptsKey(code string) string       { return "quiz:" + code + ":attempts" }
func adminKey(email string) string         { return "admin:" + email }

const quizCodesKey = "quiz:codes"

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.QuizSession) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	ok, err := s.client.SetNX(ctx, quizKey(quiz.SessionCode), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionCodeTaken
	}
	return s.client.SAdd(ctx, quizCodesKey, quiz.SessionCode).Err()
}

func (s *Store) GetQuiz(ctx context.Context, sessionCode string) (domain.QuizSession, error) {
	data, err := s.client.Get(ctx, quizKey(sessionCode)).Bytes()
	if err == redis.Nil {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, err
	}
	var quiz domain.QuizSession
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.QuizSession{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) ListQuizzes(ctx context.Context, activeOnly bool) ([]domain.QuizSession, error) {
	codes, err := s.client.SMembers(ctx, quizCodesKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.QuizSession, 0, len(codes))
	for _, code := range codes {
		quiz, err := s.GetQuiz(ctx, code)
		if err == domain.ErrSessionNotFound {
			continue // index entry outlived the document
		}
		if err != nil {
			return nil, err
		}
		if activeOnly && !quiz.IsActive {
			continue
		}
		out = append(out, quiz)
	}
	sortQuizzes(out)
	return out, nil
}

func (s *Store) UpdateQuiz(ctx context.Context, quiz domain.QuizSession) error {
	exists, err := s.client.Exists(ctx, quizKey(quiz.SessionCode)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrSessionNotFound
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	return s.client.Set(ctx, quizKey(quiz.SessionCode), data, 0).Err()
}

func (s *Store) DeleteQuiz(ctx context.Context, sessionCode string) error {
	removed, err := s.client.Del(ctx, quizKey(sessionCode)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrSessionNotFound
	}
	return s.client.SRem(ctx, quizCodesKey, sessionCode).Err()
}

func (s *Store) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	pipe := s.client.Pipeline()
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question: %w", err)
		}
		pipe.Set(ctx, questionKey(q.ID), data, 0)
		pipe.RPush(ctx, questionsKey(q.SessionCode), q.ID)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	data, err := s.client.Get(ctx, questionKey(id)).Bytes()
	if err == redis.Nil {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	var question domain.Question
	if err := json.Unmarshal(data, &question); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question: %w", err)
	}
	return question, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question domain.Question) error {
	exists, err := s.client.Exists(ctx, questionKey(question.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrQuestionNotFound
	}
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	return s.client.Set(ctx, questionKey(question.ID), data, 0).Err()
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	question, err := s.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, questionKey(id))
	pipe.LRem(ctx, questionsKey(question.SessionCode), 1, id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) QuestionsBySession(ctx context.Context, sessionCode string) ([]domain.Question, error) {
	ids, err := s.client.LRange(ctx, questionsKey(sessionCode), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		question, err := s.GetQuestion(ctx, id)
		if err == domain.ErrQuestionNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, question)
	}
	return out, nil
}

func (s *Store) DeleteQuestionsBySession(ctx context.Context, sessionCode string) (int, error) {
	ids, err := s.client.LRange(ctx, questionsKey(sessionCode), 0, -1).Result()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, id := range ids {
		n, err := s.client.Del(ctx, questionKey(id)).Result()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	if err := s.client.Del(ctx, questionsKey(sessionCode)).Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *Store) CreateAttempt(ctx context.Context, attempt domain.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	ok, err := s.client.SetNX(ctx, attemptKey(attempt.SessionCode, attempt.Email), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAttemptExists
	}
	return s.client.SAdd(ctx, attemptsKey(attempt.SessionCode), attempt.Email).Err()
}

func (s *Store) GetAttempt(ctx context.Context, sessionCode, email string) (domain.Attempt, error) {
	data, err := s.client.Get(ctx, attemptKey(sessionCode, email)).Bytes()
	if err == redis.Nil {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal attempt: %w", err)
	}
	return attempt, nil
}

func (s *Store) UpdateAttempt(ctx context.Context, attempt domain.Attempt) error {
	key := attemptKey(attempt.SessionCode, attempt.Email)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrAttemptNotFound
	}
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *Store) AttemptsBySession(ctx context.Context, sessionCode string) ([]domain.Attempt, error) {
	emails, err := s.client.SMembers(ctx, attemptsKey(sessionCode)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Attempt, 0, len(emails))
	for _, email := range emails {
		attempt, err := s.GetAttempt(ctx, sessionCode, email)
		if err == domain.ErrAttemptNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attempt)
	}
	sortAttempts(out)
	return out, nil
}

func (s *Store) ListAttempts(ctx context.Context) ([]domain.Attempt, error) {
	var out []domain.Attempt
	iter := s.client.Scan(ctx, 0, "attempt:*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		var attempt domain.Attempt
		if err := json.Unmarshal(data, &attempt); err != nil {
			return nil, fmt.Errorf("unmarshal attempt: %w", err)
		}
		out = append(out, attempt)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sortAttempts(out)
	return out, nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin domain.Admin) error {
	data, err := json.Marshal(adminDoc{Email: admin.Email, PasswordHash: admin.PasswordHash, Role: admin.Role})
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	ok, err := s.client.SetNX(ctx, adminKey(admin.Email), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAdminExists
	}
	return nil
}

func (s *Store) GetAdmin(ctx context.Context, email string) (domain.Admin, error) {
	data, err := s.client.Get(ctx, adminKey(email)).Bytes()
	if err == redis.Nil {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	if err != nil {
		return domain.Admin{}, err
	}
	var doc adminDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Admin{}, fmt.Errorf("unmarshal admin: %w", err)
	}
	return domain.Admin{Email: doc.Email, PasswordHash: doc.PasswordHash, Role: doc.Role}, nil
}

// adminDoc carries the password hash, which domain.Admin deliberately keeps
// out of its JSON form.
type adminDoc struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

// Redis sets are unordered; sort snapshots so listings are stable.

func sortQuizzes(quizzes []domain.QuizSession) {
	sort.Slice(quizzes, func(i, j int) bool {
		if !quizzes[i].CreatedAt.Equal(quizzes[j].CreatedAt) {
			return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
		}
		return quizzes[i].SessionCode < quizzes[j].SessionCode
	})
}

func sortAttempts(attempts []domain.Attempt) {
	sort.Slice(attempts, func(i, j int) bool {
		if !attempts[i].CreatedAt.Equal(attempts[j].CreatedAt) {
			return attempts[i].CreatedAt.Before(attempts[j].CreatedAt)
		}
		return attempts[i].Email < attempts[j].Email
	})
}
