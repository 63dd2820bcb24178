package configuration

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/db"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/handler"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/hub"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/metrics"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/model"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/notify"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/repo"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/service"
)

const defaultConfigPath = "config/config.json"

type Container struct {
	MessageHandler handler.MessageHandler
	UserHandler    handler.UserHandler
	Hub            *hub.Hub
	Config         Config
	Logger         *zap.Logger

	// private - for cleanup
	mongoClient *mongo.Database
	redisClient *redis.Client
}

func BuildContainer() (*Container, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	con, err := db.OpenConnection(config.ChatDatabase.Uri, config.ChatDatabase.Database)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	logger, _ := zap.NewProduction()

	metrics.Register()

	messageStore := db.NewRepository[model.Message](con, config.ChatDatabase.MessagesCollection)
	conversationStore := db.NewRepository[model.Conversation](con, config.ChatDatabase.ConversationsCollection)
	blockStore := db.NewRepository[model.Block](con, config.ChatDatabase.BlocksCollection)
	userStore := db.NewRepository[model.User](con, config.ChatDatabase.UsersCollection)

	messageRepo := repo.NewMessageRepository(con, messageStore, logger)
	conversationRepo := repo.NewConversationRepository(con, conversationStore, logger)
	blockRepo := repo.NewBlockRepository(con, blockStore, logger)
	userRepo := repo.NewUserRepository(con, userStore)

	pusher := notify.NewPusher(rdb, logger)

	// The hub is the lifecycle engine's notifier and the engine handles
	// the hub's inbound signals, so wire them in two steps.
	chatHub := hub.NewHub(userRepo, pusher, logger, config.Server.AllowedOrigins)
	messageService := service.NewMessageService(conversationRepo, messageRepo, blockRepo, chatHub, logger)
	chatHub.AttachEngine(messageService)

	blockService := service.NewBlockService(blockRepo, logger)
	userService := service.NewUserService(userRepo, messageRepo, logger)

	messageHandler := handler.NewMessageHandler(messageService, blockService)
	userHandler := handler.NewUserHandler(userService)

	return &Container{
		MessageHandler: messageHandler,
		UserHandler:    userHandler,
		Hub:            chatHub,
		Config:         *config,
		Logger:         logger,
		mongoClient:    con,
		redisClient:    rdb,
	}, nil
}

// Close gracefully shuts down all connections
func (c *Container) Close() error {
	// Stop the hub first (closes all WebSocket connections)
	if c.Hub != nil {
		c.Hub.Stop()
	}

	// Sync logger
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}

	// Close MongoDB connection pool
	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}
