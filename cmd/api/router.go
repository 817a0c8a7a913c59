package api

import (
	"net/http"
	"time"

	authdelivery "campusmate-backend/internal/auth/delivery"
	authusecase "campusmate-backend/internal/auth/usecase"
	eventdelivery "campusmate-backend/internal/event/delivery"
	habitdelivery "campusmate-backend/internal/habit/delivery"
	notedelivery "campusmate-backend/internal/note/delivery"
	portaldelivery "campusmate-backend/internal/portal/delivery"
	taskdelivery "campusmate-backend/internal/task/delivery"
	txdelivery "campusmate-backend/internal/transaction/delivery"
	"campusmate-backend/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth        *authdelivery.AuthHandler
	Portal      *portaldelivery.PortalHandler
	Task        *taskdelivery.TaskHandler
	Note        *notedelivery.NoteHandler
	Habit       *habitdelivery.HabitHandler
	Transaction *txdelivery.TransactionHandler
	Event       *eventdelivery.EventHandler
}

func NewRouter(cfg *config.Config, authUsecase authusecase.AuthUsecase, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := authdelivery.AuthMiddleware(authUsecase)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", authRequired, h.Auth.Me)
			auth.POST("/portal/link", authRequired, h.Auth.LinkPortal)
			auth.DELETE("/portal/link", authRequired, h.Auth.UnlinkPortal)
		}

		fcm := api.Group("/fcm")
		fcm.Use(authRequired)
		{
			fcm.POST("/register", h.Auth.RegisterFCMToken)
			fcm.DELETE("/:token", h.Auth.UnregisterFCMToken)
		}

		portal := api.Group("/portal")
		portal.Use(authRequired)
		{
			portal.POST("/sync", h.Portal.TriggerSync)
			portal.GET("/grades", h.Portal.GetGrades)
			portal.GET("/history", h.Portal.GetHistory)
			portal.GET("/stats", h.Portal.GetStats)
		}

		tasks := api.Group("/tasks")
		tasks.Use(authRequired)
		{
			tasks.GET("", h.Task.GetTasks)
			tasks.POST("", h.Task.CreateTask)
			tasks.GET("/:id", h.Task.GetTaskByID)
			tasks.PUT("/:id", h.Task.UpdateTask)
			tasks.DELETE("/:id", h.Task.DeleteTask)
		}

		notes := api.Group("/notes")
		notes.Use(authRequired)
		{
			notes.GET("", h.Note.GetNotes)
			notes.POST("", h.Note.CreateNote)
			notes.GET("/:id", h.Note.GetNoteByID)
			notes.PUT("/:id", h.Note.UpdateNote)
			notes.DELETE("/:id", h.Note.DeleteNote)
		}

		habits := api.Group("/habits")
		habits.Use(authRequired)
		{
			habits.GET("", h.Habit.GetHabits)
			habits.POST("", h.Habit.CreateHabit)
			habits.PUT("/:id", h.Habit.UpdateHabit)
			habits.DELETE("/:id", h.Habit.DeleteHabit)
			habits.POST("/:id/toggle", h.Habit.ToggleHabit)
			habits.GET("/:id/streak", h.Habit.GetStreak)
		}

		transactions := api.Group("/transactions")
		transactions.Use(authRequired)
		{
			transactions.GET("", h.Transaction.GetTransactions)
			transactions.POST("", h.Transaction.CreateTransaction)
			transactions.PUT("/:id", h.Transaction.UpdateTransaction)
			transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
			transactions.GET("/summary", h.Transaction.GetSummary)
		}

		events := api.Group("/events")
		events.Use(authRequired)
		{
			events.GET("", h.Event.GetEvents)
			events.POST("", h.Event.CreateEvent)
			events.GET("/:id", h.Event.GetEventByID)
			events.PUT("/:id", h.Event.UpdateEvent)
			events.DELETE("/:id", h.Event.DeleteEvent)
		}
	}

	return r
}
