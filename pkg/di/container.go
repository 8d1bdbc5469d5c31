package di

import (
	"kamgar-sahayak/backend/internal/nlp"
	"kamgar-sahayak/backend/internal/service"
	"kamgar-sahayak/backend/internal/store"
	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/health"
	"kamgar-sahayak/backend/pkg/jwt"
	"kamgar-sahayak/backend/pkg/logger"
	"kamgar-sahayak/backend/pkg/observability"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB            *gorm.DB
	Logger        *logger.Logger
	JWTService    *jwt.Service
	QueryStore    store.QueryLogStore
	AdminStore    store.AdminStore
	NLPClient     *nlp.Client
	AnswerCache   service.AnswerCache
	Metrics       *observability.Metrics
	ChatService   *service.ChatService
	AuthService   *service.AuthService
	ReviewService *service.ReviewService
	HealthChecker *health.Checker
}

// New creates a new dependency injection container. A nil db wires the
// in-memory stores, used when the server runs without Postgres.
func New(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics) *Container {
	cfg := config.Get()

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	var queryStore store.QueryLogStore
	var adminStore store.AdminStore
	if db != nil {
		queryStore = store.NewGormStore(db)
		adminStore = store.NewGormAdminStore(db)
	} else {
		queryStore = store.NewMemoryStore()
		adminStore = store.NewMemoryAdminStore()
	}

	nlpClient := nlp.NewClient()
	answerCache := service.NewAnswerCache(log)

	chatService := service.NewChatService(queryStore, nlpClient, answerCache, metrics, log)
	authService := service.NewAuthService(adminStore, jwtService, log)
	reviewService := service.NewReviewService(queryStore, answerCache, metrics, log)

	checker := health.NewChecker(log, cfg.Server.HealthCheckPeriod)
	if db != nil {
		checker.RegisterDatabaseCheck(func() error {
			return config.TestConnection(db)
		})
	}
	checker.RegisterAPICheck("nlp", nlpClient.BaseURL()+"/health", nil)

	return &Container{
		DB:            db,
		Logger:        log,
		JWTService:    jwtService,
		QueryStore:    queryStore,
		AdminStore:    adminStore,
		NLPClient:     nlpClient,
		AnswerCache:   answerCache,
		Metrics:       metrics,
		ChatService:   chatService,
		AuthService:   authService,
		ReviewService: reviewService,
		HealthChecker: checker,
	}
}
