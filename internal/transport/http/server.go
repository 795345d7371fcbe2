package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsegram/internal/cache"
	"pulsegram/internal/config"
	"pulsegram/internal/database"
	"pulsegram/internal/handler"
	"pulsegram/internal/queue"
	appredis "pulsegram/internal/redis"
	"pulsegram/internal/repository"
	"pulsegram/internal/service"
	"pulsegram/internal/worker"
)

// Run wires the whole application together and serves until SIGINT or
// SIGTERM.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx); err != nil {
		cancelPing()
		return err
	}
	cancelPing()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Redis-backed infrastructure
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)
	trendingCache := cache.NewTrendingCache(redisClient.Client)

	// Services
	userService := service.NewUserService(userRepo, followRepo, postRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	followService := service.NewFollowService(followRepo, userRepo, publisher)
	hashtagService := service.NewHashtagService(hashtagRepo, trendingCache, publisher)
	postService := service.NewPostService(postRepo, userRepo, hashtagService, publisher)
	commentService := service.NewCommentService(commentRepo, postRepo, publisher)
	feedService := service.NewFeedService(postRepo)
	verificationService := service.NewVerificationService(verificationRepo, userRepo)

	var mediaHandler *handler.MediaHandler
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		log.Printf("Media uploads disabled: %v", err)
	} else {
		mediaHandler = handler.NewMediaHandler(mediaService)
	}

	// Counter reconciler
	reconciler := worker.NewManager(
		consumer,
		worker.NewHandler(followRepo, userRepo, postRepo, hashtagRepo),
		worker.ManagerConfig{WorkerCount: cfg.ReconcilerWorkers},
	)
	if err := reconciler.Start(context.Background()); err != nil {
		return fmt.Errorf("start reconciler: %w", err)
	}
	defer reconciler.Stop()

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService, cfg),
		UserHandler:         handler.NewUserHandler(userService),
		FollowHandler:       handler.NewFollowHandler(followService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		PostHandler:         handler.NewPostHandler(postService, userService),
		CommentHandler:      handler.NewCommentHandler(commentService, userService),
		HashtagHandler:      handler.NewHashtagHandler(hashtagService),
		VerificationHandler: handler.NewVerificationHandler(verificationService),
		MediaHandler:        mediaHandler,
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
