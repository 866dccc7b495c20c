package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost-service/internal/app"
	"quizhost-service/internal/domain"
)

// AdminHandler serves the backoffice API: authentication plus quiz authoring.
type AdminHandler struct {
	auth    *app.AuthService
	catalog *app.CatalogService
}

func NewAdminHandler(auth *app.AuthService, catalog *app.CatalogService) *AdminHandler {
	return &AdminHandler{auth: auth, catalog: catalog}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type questionPayload struct {
	ID           string          `json:"id"`
	QuestionText string          `json:"questionText"`
	Options      []domain.Option `json:"options"`
}

func (p questionPayload) toInput() app.QuestionInput {
	return app.QuestionInput{ID: p.ID, QuestionText: p.QuestionText, Options: p.Options}
}

func toInputs(payloads []questionPayload) []app.QuestionInput {
	out := make([]app.QuestionInput, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.toInput())
	}
	return out
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AdminHandler) Verify(c *gin.Context) {
	// RequireAuth already validated the token and stashed the identity.
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": domain.Identity{
			Email: c.GetString("email"),
			Role:  c.GetString("role"),
		},
	})
}

type createQuizRequest struct {
	SessionCode       string            `json:"sessionCode"`
	QuizName          string            `json:"quizName"`
	NumberOfQuestions int               `json:"numberOfQuestions"`
	QuestionsList     []questionPayload `json:"questionsList"`
}

func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	quiz, questions, err := h.catalog.CreateQuiz(c.Request.Context(), req.SessionCode, req.QuizName, req.NumberOfQuestions, toInputs(req.QuestionsList))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": quiz, "questions": questions})
}

type addQuestionsRequest struct {
	SessionCode   string            `json:"sessionCode"`
	QuestionsList []questionPayload `json:"questionsList"`
}

func (h *AdminHandler) AddQuestions(c *gin.Context) {
	var req addQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	questions, err := h.catalog.AddQuestions(c.Request.Context(), req.SessionCode, toInputs(req.QuestionsList))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"questions": questions})
}

func (h *AdminHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.catalog.ListQuizzes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (h *AdminHandler) ListActiveSessions(c *gin.Context) {
	sessions, err := h.catalog.ListActiveSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeSessions": sessions})
}

type editQuizRequest struct {
	QuizName      string            `json:"quizName"`
	IsActive      bool              `json:"isActive"`
	QuestionsList []questionPayload `json:"questionsList"`
}

func (h *AdminHandler) EditQuiz(c *gin.Context) {
	var req editQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	quiz, questions, err := h.catalog.EditQuiz(c.Request.Context(), c.Param("sessionCode"), req.QuizName, req.IsActive, toInputs(req.QuestionsList))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": quiz, "questions": questions})
}

func (h *AdminHandler) DeleteQuiz(c *gin.Context) {
	quiz, removed, err := h.catalog.DeleteQuiz(c.Request.Context(), c.Param("sessionCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedQuiz": quiz, "deletedQuestionsCount": removed})
}

type deleteQuestionRequest struct {
	QuestionID string `json:"questionId"`
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	var req deleteQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	if err := h.catalog.DeleteQuestion(c.Request.Context(), req.QuestionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question deleted successfully"})
}

type endSessionRequest struct {
	SessionCode string `json:"sessionCode"`
}

func (h *AdminHandler) EndSession(c *gin.Context) {
	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body"))
		return
	}
	session, err := h.catalog.EndSession(c.Request.Context(), req.SessionCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *AdminHandler) ViewQuestions(c *gin.Context) {
	questions, err := h.catalog.ViewQuestions(c.Request.Context(), c.Query("sessionCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
