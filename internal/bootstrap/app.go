package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tripcraft/internal/ai"
	"tripcraft/internal/app"
	"tripcraft/internal/config"
	"tripcraft/internal/model"
	mysqlClient "tripcraft/internal/platform/mysql"
	rabbitmqClient "tripcraft/internal/platform/rabbitmq"
	redisClient "tripcraft/internal/platform/redis"
	sqliteClient "tripcraft/internal/platform/sqlite"
	"tripcraft/internal/repository"
	"tripcraft/internal/worker"
)

type App struct {
	Config           *config.Config
	DB               *gorm.DB
	Redis            *redis.Client
	MQConn           *amqp.Connection
	AI               app.AIProvider
	TranscriptWorker *worker.TranscriptPersistWorker

	StartedAt time.Time

	gemini *ai.GeminiClient
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		if cfg.App.Env == "prod" {
			return nil, fmt.Errorf("refusing to start: JWT secret is the insecure default, set JWT_SECRET_KEY")
		}
		log.Printf("WARNING: using the insecure default JWT secret; set JWT_SECRET_KEY before deploying")
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Itinerary{}, &model.ChatMessage{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	application := &App{
		Config:    cfg,
		DB:        db,
		StartedAt: time.Now(),
	}

	// Redis and RabbitMQ are optional: without them the API still serves,
	// with the saved-list cache and transcript persistence switched off.
	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("redis unavailable, saved-itinerary cache disabled: %v", err)
	} else {
		application.Redis = redisCli
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		log.Printf("rabbitmq unavailable, chat transcript persistence disabled: %v", err)
	} else {
		application.MQConn = mqConn

		chatMessageRepo := repository.NewChatMessageRepository(db)
		transcriptWorker := worker.NewTranscriptPersistWorker(mqConn, chatMessageRepo, cfg.RabbitMQ.TranscriptQueue)
		if err := transcriptWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start transcript worker failed: %w", err)
		}
		application.TranscriptWorker = transcriptWorker
	}

	if err := application.setupAI(ctx); err != nil {
		return nil, err
	}

	return application, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return mysqlClient.New(ctx, cfg.MySQLDSN())
	case "sqlite":
		return sqliteClient.New(cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func (a *App) setupAI(ctx context.Context) error {
	cfg := a.Config.LLM
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Printf("WARNING: GEMINI_API_KEY not set, itinerary generation and chat will fail")
			return nil
		}
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("setup gemini client failed: %w", err)
		}
		a.gemini = client
		a.AI = client
	case "openai":
		if cfg.APIKey == "" {
			log.Printf("WARNING: LLM_API_KEY not set, itinerary generation and chat will fail")
			return nil
		}
		a.AI = ai.NewOpenAICompatibleClient(ai.OpenAIConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		})
	default:
		return fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
