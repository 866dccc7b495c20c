package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost-service/internal/app"
	"quizhost-service/internal/domain"
)

// UserHandler serves the participant API: joining, submitting, and results.
type UserHandler struct {
	attempts *app.AttemptService
	names    *app.NameCache
}

func NewUserHandler(attempts *app.AttemptService, names *app.NameCache) *UserHandler {
	return &UserHandler{attempts: attempts, names: names}
}

type startQuizRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	SessionCode string `json:"sessionCode"`
}

func (h *UserHandler) StartQuiz(c *gin.Context) {
	var req startQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	started, err := h.attempts.StartAttempt(c.Request.Context(), req.Name, req.Email, req.SessionCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quizName":    started.QuizName,
		"sessionCode": started.SessionCode,
		"attemptId":   started.AttemptID,
		"questions":   started.Questions,
	})
}

type submitQuizRequest struct {
	SessionCode string          `json:"sessionCode"`
	Email       string          `json:"email"`
	Answers     []domain.Answer `json:"answers"`
}

func (h *UserHandler) SubmitQuiz(c *gin.Context) {
	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	answers, err := h.attempts.SubmitQuiz(c.Request.Context(), req.SessionCode, req.Email, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz submitted successfully", "answers": answers})
}

func (h *UserHandler) QuizName(c *gin.Context) {
	name, err := h.names.QuizName(c.Request.Context(), c.Param("sessionCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizName": name})
}

type getResultRequest struct {
	SessionCode string `json:"sessionCode"`
	Email       string `json:"email"`
}

func (h *UserHandler) GetResult(c *gin.Context) {
	var req getResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	result, err := h.attempts.GetResult(c.Request.Context(), req.SessionCode, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": result.Score, "totalQuestions": result.TotalQuestions})
}

func (h *UserHandler) ListParticipants(c *gin.Context) {
	attempts, err := h.attempts.ListParticipants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if attempts == nil {
		attempts = []domain.Attempt{}
	}
	c.JSON(http.StatusOK, gin.H{"participants": attempts})
}
