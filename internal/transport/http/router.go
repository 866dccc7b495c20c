package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quizhost-service/internal/app"
)

// NewRouter assembles the full HTTP surface: participant routes, admin routes,
// and the live scoreboard feed.
func NewRouter(auth *app.AuthService, catalog *app.CatalogService, attempts *app.AttemptService, names *app.NameCache, hub *app.ScoreboardHub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	adminHandler := NewAdminHandler(auth, catalog)
	userHandler := NewUserHandler(attempts, names)
	watchHandler := NewWatchHandler(attempts, hub)

	user := r.Group("/user")
	{
		user.POST("/startquiz", userHandler.StartQuiz)
		user.POST("/submitquiz", userHandler.SubmitQuiz)
		user.POST("/getresult", userHandler.GetResult)
		user.GET("/quizname/:sessionCode", userHandler.QuizName)
		user.GET("/getallusers", userHandler.ListParticipants)
	}

	admin := r.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)
		admin.GET("/quizzes", adminHandler.ListQuizzes)
		admin.GET("/active", adminHandler.ListActiveSessions)
		admin.GET("/allquestionofsession", adminHandler.ViewQuestions)
		admin.GET("/watch/:sessionCode", watchHandler.Watch)

		protected := admin.Group("")
		protected.Use(RequireAuth(auth))
		{
			protected.GET("/verify", adminHandler.Verify)
			protected.POST("/createquiz", adminHandler.CreateQuiz)
			protected.POST("/addquestions", adminHandler.AddQuestions)
			protected.PUT("/editquiz/:sessionCode", adminHandler.EditQuiz)
			protected.PUT("/end", adminHandler.EndSession)
			protected.DELETE("/quizzes/:sessionCode", adminHandler.DeleteQuiz)
			protected.DELETE("/deletequestionforsession", adminHandler.DeleteQuestion)
		}
	}

	return r
}
