package domain

import "time"

// AttemptStatus tracks where a participant is in the attempt lifecycle.
type AttemptStatus string

const (
	// AttemptInProgress means the participant has started but not submitted.
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	// AttemptSubmitted is terminal; the score is fixed at this transition.
	AttemptSubmitted AttemptStatus = "SUBMITTED"
)

// QuizSession is one hosted quiz instance, joined by its human-chosen code.
type QuizSession struct {
	SessionCode       string    `json:"sessionCode"`
	QuizName          string    `json:"quizName"`
	NumberOfQuestions int       `json:"numberOfQuestions"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Option is a single answer choice as authored by the admin.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question belongs to a session; options keep their authored order.
type Question struct {
	ID           string    `json:"id"`
	SessionCode  string    `json:"sessionCode"`
	QuestionText string    `json:"questionText"`
	Options      []Option  `json:"options"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicOption is an option with the correctness flag stripped.
type PublicOption struct {
	Text string `json:"text"`
}

// PublicQuestion is the participant-facing view of a question. It carries no
// correctness information at all, so it cannot leak answers over the wire.
type PublicQuestion struct {
	ID           string         `json:"id"`
	QuestionText string         `json:"questionText"`
	Options      []PublicOption `json:"options"`
}

// Public returns the sanitized view served to participants before submission.
func (q Question) Public() PublicQuestion {
	opts := make([]PublicOption, 0, len(q.Options))
	for _, op := range q.Options {
		opts = append(opts, PublicOption{Text: op.Text})
	}
	return PublicQuestion{ID: q.ID, QuestionText: q.QuestionText, Options: opts}
}

// Answer is one submitted (question, selected option text) pair.
type Answer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
}

// Attempt is one participant's single try at one session. At most one attempt
// exists per (sessionCode, email) pair; the storage layer enforces that.
type Attempt struct {
	ID          string        `json:"id"`
	SessionCode string        `json:"sessionCode"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Status      AttemptStatus `json:"status"`
	Answers     []Answer      `json:"answers"`
	Score       *int          `json:"score,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Admin is a backoffice account allowed to author quizzes.
type Admin struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Identity is the verified subject carried by a bearer token.
type Identity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ScoreboardEntry is one submitted attempt as shown on the live scoreboard.
type ScoreboardEntry struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Scoreboard is the ordered results snapshot for one session.
type Scoreboard struct {
	SessionCode string            `json:"sessionCode"`
	Entries     []ScoreboardEntry `json:"entries"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
