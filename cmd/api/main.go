package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/handler"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/repository"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/service"
	"github.com/JRimIT/Travel-Buddy-sub000/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL драйвер
)

func main() {
	// Подхватываем .env, если он есть; переменные окружения имеют приоритет
	godotenv.Load()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	dsn := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	// Выполняем миграции (если есть)
	files, err := filepath.Glob("migrations/*.sql")
	if err == nil {
		for _, file := range files {
			content, readErr := os.ReadFile(file)
			if readErr != nil {
				log.Printf("Миграция %s не прочитана: %v", file, readErr)
				continue
			}
			if _, execErr := db.Exec(string(content)); execErr != nil {
				log.Printf("Миграция %s завершилась ошибкой: %v", file, execErr)
			} else {
				log.Printf("Миграция %s применена.", file)
			}
		}
	}

	// Инициализируем репозитории
	tripRepo := repository.NewTripRepository(db)
	convRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	// Инициализируем сервисы
	tripService := service.NewTripService(tripRepo)
	assignmentService := service.NewAssignmentService(tripRepo)
	convService := service.NewConversationService(convRepo)
	ratingService := service.NewRatingService(reviewRepo, tripRepo, locationRepo)
	reviewService := service.NewReviewService(reviewRepo, ratingService)
	locationService := service.NewLocationService(locationRepo)
	hub := ws.NewHub(messageRepo, convRepo)

	// Создаем Handler и регистрируем маршруты
	h := handler.NewHandler(tripService, assignmentService, convService, reviewService, locationService, hub)
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
	}))

	router.GET("/ws", h.ServeWS)
	api := router.Group("/api")
	{
		api.POST("/trips", h.CreateTrip)
		api.GET("/trips", h.ListPublicTrips)
		api.GET("/trips/mine", h.ListMyTrips)
		api.GET("/trips/pending-review", h.ListPendingReview)
		api.GET("/trips/claimable", h.ListClaimable)
		api.GET("/trips/:id", h.GetTrip)
		api.POST("/trips/:id/approve", h.ApproveTrip)
		api.POST("/trips/:id/reject", h.RejectTrip)
		api.POST("/trips/:id/resubmit", h.ResubmitTrip)
		api.POST("/trips/:id/request-support", h.RequestSupport)
		api.POST("/trips/:id/claim", h.ClaimTrip)
		api.POST("/trips/:id/complete", h.CompleteTrip)

		api.GET("/conversations", h.ListConversations)
		api.POST("/conversations", h.GetOrCreateConversation)
		api.POST("/conversations/:id/assign", h.AssignConversation)
		api.POST("/conversations/:id/resolve", h.ResolveConversation)
		api.POST("/conversations/:id/reopen", h.ReopenConversation)
		api.GET("/conversations/:id/messages", h.ListMessages)
		api.POST("/conversations/:id/read", h.MarkRead)

		api.POST("/reviews", h.SubmitReview)
		api.GET("/reviews", h.ListReviews)
		api.POST("/reviews/:id/hide", h.HideReview)
		api.POST("/reviews/:id/show", h.ShowReview)

		api.GET("/locations", h.ListLocations)
	}
	// Health-check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Запускаем HTTP-сервер
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
