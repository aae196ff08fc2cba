package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codearena/internal/api"
	"codearena/internal/app/service"
	"codearena/internal/common/security"
	"codearena/internal/domain/repository"
	"codearena/internal/platform/config"
	"codearena/internal/platform/database"
	"codearena/internal/platform/logger"
	"codearena/internal/platform/queue"

	"go.uber.org/zap"
)

func main() {
	config.Load()
	logger.Init()
	defer logger.Sync()

	security.InitJWT()

	database.Connect()
	defer database.Close()

	queue.ConnectRedis()
	defer queue.CloseRedis()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureIndexes(indexCtx, database.DB); err != nil {
		indexCancel()
		logger.L.Fatal("failed to ensure indexes", zap.Error(err))
	}
	indexCancel()

	hasher := security.NewBcryptHasher()

	userRepo := repository.NewMongoUserRepository(database.DB)
	authRepo := repository.NewMongoAuthDetailRepository(database.DB, hasher)
	problemRepo := repository.NewMongoProblemRepository(database.DB)
	testCaseRepo := repository.NewMongoTestCaseRepository(database.DB)
	contestRepo := repository.NewMongoContestRepository(database.DB)
	announcementRepo := repository.NewMongoAnnouncementRepository(database.DB)
	submissionRepo := repository.NewMongoSubmissionRepository(database.DB)
	collectionRepo := repository.NewMongoCollectionRepository(database.DB)

	authService := service.NewAuthService(userRepo, authRepo, hasher)
	submissionService := service.NewSubmissionService(submissionRepo, queue.RDB, logger.L)

	router := api.NewRouter(api.Dependencies{
		AuthService:       authService,
		SubmissionService: submissionService,
		Users:             userRepo,
		Problems:          problemRepo,
		TestCases:         testCaseRepo,
		Contests:          contestRepo,
		Announcements:     announcementRepo,
		Submissions:       submissionRepo,
		Collections:       collectionRepo,
	})

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.L.Info("server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop

	logger.L.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.L.Info("server stopped gracefully")
}
