package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"linecut/internal/config"
	"linecut/internal/database"
	"linecut/internal/handler"
	"linecut/internal/help"
	"linecut/internal/imagecache"
	"linecut/internal/logging"
	"linecut/internal/mail"
	"linecut/internal/notify"
	"linecut/internal/service"
	"linecut/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	closeLog := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	if err := database.InitSchema(ctx, db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	faq, err := help.Load()
	if err != nil {
		slog.Error("failed to load FAQ", "error", err)
		os.Exit(1)
	}

	// Delivery
	var pusher notify.Pusher = notify.LogPusher{}
	if cfg.FirebaseCredentials != "" {
		fcm, err := notify.NewFCMPusher(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			slog.Error("failed to init push notifications, falling back to log", "error", err)
		} else {
			pusher = fcm
		}
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	// Services
	images := imagecache.New()
	authSvc := service.NewAuthService(db)
	passwordSvc := service.NewPasswordService(db, mailer, cfg.ResetURL)
	userSvc := service.NewUserService(db, images)
	imageSvc := service.NewImageService(db, images)
	storeSvc := service.NewStoreService(db)
	favoriteSvc := service.NewFavoriteService(db)
	notificationSvc := service.NewNotificationService(db, pusher)
	pixClient := service.NewPixClient(cfg.PixAPIAddress, cfg.PixTimeout, cfg.PixRate)
	orderSvc := service.NewOrderService(db, pixClient, notificationSvc)
	ratingSvc := service.NewRatingService(db)

	// Worker
	var states worker.StatusStore = worker.NewMemoryStatusStore()
	if cfg.RedisAddr != "" {
		rdb, err := worker.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		states = worker.NewRedisStatusStore(rdb, cfg.WatchWindow)
	}
	statusWorker := worker.NewOrderStatusWorker(orderSvc, storeSvc, notificationSvc, states, worker.Options{
		Interval:    cfg.WatchInterval,
		Window:      cfg.WatchWindow,
		RatingDelay: cfg.RatingDelay,
	})

	// Router
	r := handler.NewRouter(handler.Services{
		Auth:          authSvc,
		Passwords:     passwordSvc,
		Catalog:       storeSvc,
		Favorites:     favoriteSvc,
		Profiles:      userSvc,
		Images:        imageSvc,
		Orders:        orderSvc,
		Ratings:       ratingSvc,
		Notifications: notificationSvc,
		FAQ:           faq,
	}, handler.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		StoreAPIKey: cfg.StoreAPIKey,
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go statusWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	<-statusWorker.Done()
	statusWorker.Stop()

	slog.Info("server stopped")
}
