package routes

import (
	"context"
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BingoAIHelper/bingo-backend/internal/config"
	"github.com/BingoAIHelper/bingo-backend/internal/handlers"
	"github.com/BingoAIHelper/bingo-backend/internal/middleware"
	"github.com/BingoAIHelper/bingo-backend/internal/notify"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

// RegisterRoutes builds the full dependency graph and mounts every endpoint.
// Optional integrations (Gemini, S3, Redis) come up only when configured; the
// rest of the API works without them.
func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	cipher, err := utils.NewMessageCipher(cfg.MessageEncryptionKey)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	seekerProfileRepo := repository.NewSeekerProfileRepository(db)
	coachProfileRepo := repository.NewCoachProfileRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	var aiService services.AIService
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiAIService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		aiService = gemini
	} else {
		log.Println("GEMINI_API_KEY not set, AI features disabled")
	}

	var storage services.StorageService
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		s3Storage, err := services.NewS3StorageService(
			context.Background(), cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.S3Bucket,
		)
		if err != nil {
			return err
		}
		storage = s3Storage
	} else {
		log.Println("AWS credentials not set, document storage disabled")
	}

	var broker *notify.RedisBroker
	if cfg.RedisAddr != "" {
		broker = notify.NewRedisBroker(cfg.RedisAddr, cfg.RedisPassword)
	}
	hub := notify.NewHub(broker)
	go hub.Run()

	notificationService := services.NewNotificationService(
		hub, matchRepo, messageRepo, cipher, cfg.NotifyCatchupWindow,
	)
	authService := services.NewAuthService(db, userRepo, cfg.JWTSecret)
	matchmakingService := services.NewMatchmakingService(coachProfileRepo)
	matchService := services.NewMatchService(
		db, matchRepo, conversationRepo, messageRepo,
		userRepo, seekerProfileRepo, coachProfileRepo,
		matchmakingService, aiService, cipher, notificationService,
	)
	chatService := services.NewChatService(
		db, conversationRepo, messageRepo, matchRepo,
		userRepo, documentRepo, assessmentRepo, cipher, notificationService,
	)
	assessmentService := services.NewAssessmentService(db, assessmentRepo, userRepo, matchRepo)
	documentService := services.NewDocumentService(
		documentRepo, storage, services.NewDocconvExtractor(), aiService,
	)

	authHandler := handlers.NewAuthHandler(authService)
	onboardingHandler := handlers.NewOnboardingHandler(seekerProfileRepo, coachProfileRepo)
	profileHandler := handlers.NewProfileHandler(seekerProfileRepo, coachProfileRepo)
	discoveryHandler := handlers.NewCoachDiscoveryHandler(coachProfileRepo, matchmakingService, seekerProfileRepo)
	matchHandler := handlers.NewMatchHandler(matchService)
	chatHandler := handlers.NewChatHandler(chatService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	aiHandler := handlers.NewAIHandler(aiService)
	notificationHandler := handlers.NewNotificationHandler(hub, notificationService, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	onboarding := authProtected.Group("/onboarding")
	onboarding.Post("/seeker", onboardingHandler.CompleteSeekerOnboarding)
	onboarding.Post("/coach", onboardingHandler.CompleteCoachOnboarding)

	profile := authProtected.Group("/profile")
	profile.Get("/me", profileHandler.GetMyProfile)
	profile.Patch("/me", profileHandler.UpdateMyProfile)

	coaches := authProtected.Group("/coaches")
	coaches.Get("", discoveryHandler.ListCoaches)
	coaches.Get("/recommended", discoveryHandler.RecommendedCoaches)
	coaches.Get("/:id", discoveryHandler.GetCoach)

	matches := authProtected.Group("/matches")
	matches.Post("", matchHandler.RequestMatch)
	matches.Get("", matchHandler.ListMatches)
	matches.Get("/:id", matchHandler.GetMatch)
	matches.Patch("/:id", matchHandler.RespondToMatch)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id", chatHandler.GetConversation)
	conversations.Get("/:id/messages", chatHandler.ListMessages)
	conversations.Post("/:id/messages", chatHandler.PostMessage)

	assessments := authProtected.Group("/assessments")
	assessments.Post("", assessmentHandler.Submit)
	assessments.Get("/me", assessmentHandler.GetOwn)
	assessments.Get("/seeker/:seekerId", assessmentHandler.GetForSeeker)
	assessments.Post("/seeker/:seekerId/sections", assessmentHandler.AddSection)

	documents := authProtected.Group("/documents")
	documents.Post("", documentHandler.Upload)
	documents.Get("", documentHandler.List)
	documents.Get("/:id", documentHandler.Get)
	documents.Get("/:id/download", documentHandler.Download)
	documents.Delete("/:id", documentHandler.Delete)

	authProtected.Post("/ai/interview-questions", aiHandler.InterviewQuestions)

	api.Use("/v1/ws/notifications", notificationHandler.UpgradeRequired)
	api.Get("/v1/ws/notifications", websocket.New(notificationHandler.HandleWebSocket))

	return nil
}
