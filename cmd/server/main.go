package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"vitalog/internal/avatar"
	"vitalog/internal/config"
	"vitalog/internal/db"
	"vitalog/internal/handlers"
	mw "vitalog/internal/middleware"
	"vitalog/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	encKey, err := cfg.EncryptionKey()
	if err != nil {
		logger.Fatal("bad encryption key", zap.Error(err))
	}
	idxKey, err := cfg.BlindIndexKey()
	if err != nil {
		logger.Fatal("bad blind index key", zap.Error(err))
	}
	encSvc, err := services.NewEncryptionService(encKey, idxKey)
	if err != nil {
		logger.Fatal("encryption service", zap.Error(err))
	}

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	dbConn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Fatal("failed to ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	engine := avatar.NewEngine(avatar.NewPostgresStore(dbConn), logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(dbConn, encSvc, []byte(cfg.JWTSecret))
	userHandler := handlers.NewUserHandler(dbConn, encSvc)
	journalHandler := handlers.NewJournalHandler(dbConn, engine, encSvc)
	avatarHandler := handlers.NewAvatarHandler(engine)
	dashboardHandler := handlers.NewDashboardHandler(dbConn)
	importHandler := handlers.NewImportHandler(dbConn, engine, encSvc)
	adminHandler := handlers.NewAdminHandler(dbConn)
	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/me", userHandler.GetMe)
			pr.Put("/me", userHandler.UpdateMe)
			pr.Post("/journal", journalHandler.SaveEntry)
			pr.Get("/journal", journalHandler.List)
			pr.Delete("/journal", journalHandler.Delete)
			pr.Get("/avatar", avatarHandler.Get)
			pr.Post("/avatar/reset", avatarHandler.Reset)
			pr.Get("/avatar/stream", avatarHandler.Stream)
			pr.Get("/dashboard", dashboardHandler.Get)
			pr.Post("/import", importHandler.ImportData)
			pr.Get("/admin/overview", adminHandler.Overview)
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
