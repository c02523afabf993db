package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/mailservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	limiters       *common.Cache
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
}

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stdout, nil)).Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.isProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *Config, logger *slog.Logger) error {
	pool := common.NewPool(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	defer pool.Close()

	db, err := pool.Acquire(context.Background())
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		return err
	}

	m, err := common.MigrateUp("file://migrations", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		return err
	}
	m.Close()

	app := &application{
		config:   cfg,
		logger:   logger,
		limiters: common.NewCache(3*time.Minute, 5*time.Minute),
	}

	var producer common.MessageProducer = common.DiscardProducer

	if strings.TrimSpace(cfg.MQHost) != "" {
		broker, err := common.NewMessageBroker(cfg.rabbitMQURI())
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			return err
		}
		defer broker.Close()

		if err := common.SetupEventExchange(broker); err != nil {
			logger.Error("failed to setup the event exchange", slog.String("error", err.Error()))
			return err
		}

		app.broker = broker
		producer = broker

		app.mailService = mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger)
		defer app.mailService.Close()

		if err := app.mailService.SendWelcomeEmails(); err != nil {
			return err
		}
		if err := app.mailService.SendCommentNotifications(); err != nil {
			return err
		}
	} else {
		logger.Warn("RABBITMQ_HOST not set, events and emails are disabled")
	}

	tokens := userservice.NewTokenService(cfg.JWTSecretKey, userservice.TokenTTL)

	app.userService = userservice.NewUserService(db, tokens, producer, logger)
	app.commentService = commentservice.NewCommentService(db, producer, logger)
	app.blogService = blogservice.NewBlogService(db, app.commentService)

	return app.serve(cfg.Port)
}
