package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanba/internal/config"
	"kanba/internal/handler"
	"kanba/internal/middleware"
	"kanba/internal/repository"
	"kanba/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// sessionPurgeInterval paces the background sweep of expired sessions.
// Resolution already ignores expired rows, so the sweep only reclaims
// space.
const sessionPurgeInterval = time.Hour

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Config   *config.Config
	Sessions *repository.SessionRepository
}

func Init(cfg *config.Config) (*Server, error) {
	// Apply schema migrations before anything touches the tables
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Setup Gin
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, sessionRepo, cfg.IsProduction())
	projectHandler := handler.NewProjectHandler(projectRepo, memberRepo, columnRepo, taskRepo, userRepo)
	columnHandler := handler.NewColumnHandler(columnRepo)
	taskHandler := handler.NewTaskHandler(taskRepo)
	chatHandler := handler.NewChatHandler(cfg.OpenAIBaseURL)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Public routes
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Protected routes - require a valid session
	authorized := api.Group("/")
	authorized.Use(middleware.SessionAuth(sessionRepo))
	{
		authorized.GET("/auth/me", authHandler.Me)
		authorized.PUT("/auth/update", authHandler.UpdateProfile)

		// Project routes
		authorized.GET("/projects", projectHandler.GetAll)
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/invite", projectHandler.Invite)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.PUT("/columns", columnHandler.Update)
		authorized.DELETE("/columns", columnHandler.Delete)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks", taskHandler.Update)
		authorized.DELETE("/tasks", taskHandler.Delete)
		authorized.POST("/tasks/move", taskHandler.Move)

		// AI chat relay
		authorized.POST("/ai-chat", chatHandler.Chat)
	}

	return &Server{
		Engine:   r,
		DB:       db,
		Config:   cfg,
		Sessions: sessionRepo,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	source, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return err
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	log.Println("✅ Migrations applied")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Periodic cleanup of expired sessions
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := s.Sessions.PurgeExpired(context.Background()); err != nil {
					log.Printf("⚠️  Session cleanup failed: %v", err)
				} else if n > 0 {
					log.Printf("🧹 Purged %d expired sessions", n)
				}
			case <-done:
				return
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(done)
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
