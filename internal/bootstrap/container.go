package bootstrap

import (
	"context"
	"log"
	"time"

	"shop-chatbot-be/internal/config"
	"shop-chatbot-be/internal/controller"
	"shop-chatbot-be/internal/handler"
	"shop-chatbot-be/internal/model"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/pkg/mailer"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/internal/service"
	"shop-chatbot-be/internal/websocket"
	"shop-chatbot-be/pkg/assistant/executor"
	"shop-chatbot-be/pkg/assistant/fallback"
	"shop-chatbot-be/pkg/assistant/intent"
	"shop-chatbot-be/pkg/assistant/normalizer"
	"shop-chatbot-be/pkg/assistant/orchestrator"
	"shop-chatbot-be/pkg/assistant/pipeline"
	"shop-chatbot-be/pkg/assistant/response"
	"shop-chatbot-be/pkg/assistant/suggestion"
	"shop-chatbot-be/pkg/assistant/tools"
	"shop-chatbot-be/pkg/chatqueue"
	"shop-chatbot-be/pkg/commerce"
	"shop-chatbot-be/pkg/database"
	"shop-chatbot-be/pkg/llm/factory"
	pktNats "shop-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	AdminController  controller.IAdminController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	InProcessQueue  bool // chat records go through the gochannel, not a broker

	// Staff console
	StaffHandler *handler.StaffHandler
	WebSocketHub *websocket.Hub

	Logger      logger.ILogger
	QueueWriter chatqueue.Writer
	Redis       *redis.Client

	natsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	// 2. Infrastructure
	rdb := newRedisClient(cfg, sysLogger)

	var natsPub *pktNats.Publisher
	if cfg.Queue.Driver == config.QueueNats {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS unavailable, using in-process queue", map[string]interface{}{"error": err.Error()})
		}
	}

	// 3. Chat history queue
	var (
		writer     chatqueue.Writer
		subscriber *gochannel.GoChannel
	)
	switch {
	case natsPub != nil:
		writer = chatqueue.NewNatsWriter(natsPub)
	case cfg.Queue.Driver == config.QueueRedis && rdb != nil:
		writer = chatqueue.NewRedisWriter(rdb, cfg.Queue.RedisKey)
	default:
		if cfg.Queue.Driver != config.QueueGoChannel {
			sysLogger.Warn("Bootstrap", "Queue driver unavailable, using in-process queue", map[string]interface{}{"driver": cfg.Queue.Driver})
		}
		subscriber = gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		writer = chatqueue.NewWatermillWriter(subscriber, cfg.Queue.Topic)
	}
	// a nil *GoChannel must not become a non-nil interface
	var consumerSubscriber message.Subscriber
	if subscriber != nil {
		consumerSubscriber = subscriber
	}
	consumerService := service.NewConsumerService(consumerSubscriber, cfg.Queue.Topic, uowFactory, sysLogger)

	// 4. Commerce platform and LLM
	commerceClient := commerce.NewClient(commerce.Config{
		BaseURL:        cfg.Commerce.BaseURL,
		PublishableKey: cfg.Commerce.PublishableKey,
		AdminToken:     cfg.Commerce.AdminToken,
		Timeout:        cfg.Commerce.Timeout,
	}, sysLogger)
	regions := commerce.NewRegionCache(commerceClient, sysLogger)

	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.GeminiAPIKey,
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		sysLogger.Warn("Bootstrap", "LLM provider unavailable, replies use templates only", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"error":    err.Error(),
		})
		llmProvider = nil
	}

	tree, err := loadSuggestionTree(cfg.Assistant.SuggestionTreeFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load suggestion tree: %v", err)
	}

	// 5. Services
	adminService := service.NewAdminService(uowFactory, sysLogger)

	var turnRunner service.TurnRunner
	if cfg.Ai.AgentsEnabled {
		toolbox := tools.NewToolbox(commerceClient, regions, adminService, sysLogger)
		turnRunner = pipeline.New(
			normalizer.NewProcessor(service.NewHistoryReader(uowFactory), cfg.Assistant.HistoryLimit, sysLogger),
			intent.NewClassifier(sysLogger),
			orchestrator.NewDefault(sysLogger),
			executor.NewExecutor(toolbox, sysLogger),
			response.NewFormatter(llmProvider, tree, sysLogger),
			sysLogger,
		)
	}
	fallbackResponder := fallback.NewResponder(commerceClient, regions, sysLogger)
	chatService := service.NewChatService(uowFactory, turnRunner, fallbackResponder, writer, sysLogger)

	// Staff console hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	notifiers := []service.EscalationNotifier{wsHub}
	if natsPub != nil {
		notifiers = append(notifiers, service.NewEventEscalationNotifier(natsPub))
	}
	if cfg.SMTP.Enabled() {
		mail := mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password,
			cfg.SMTP.Email, cfg.SMTP.SenderName, cfg.SMTP.EscalationRecipients, cfg.SMTP.ConsoleURL)
		notifiers = append(notifiers, service.NewEmailEscalationNotifier(mail, sysLogger))
	}
	sessionService := service.NewSessionService(uowFactory, tree, writer, sysLogger, notifiers...)

	sysLogger.Info("Bootstrap", "Container ready", map[string]interface{}{
		"queue_driver":   cfg.Queue.Driver,
		"llm_provider":   cfg.Ai.LLMProvider,
		"agents_enabled": cfg.Ai.AgentsEnabled,
	})

	return &Container{
		ChatController:   controller.NewChatController(chatService, sessionService, sysLogger),
		AdminController:  controller.NewAdminController(adminService, cfg.App.JwtSecret),
		HealthController: controller.NewHealthController(cfg),
		ConsumerService:  consumerService,
		InProcessQueue:   subscriber != nil,
		StaffHandler:     handler.NewStaffHandler(wsHub, cfg.App.JwtSecret, wsLogger),
		WebSocketHub:     wsHub,
		Logger:           sysLogger,
		QueueWriter:      writer,
		Redis:            rdb,
		natsPublisher:    natsPub,
	}
}

// Close releases the queue and broker connections.
func (c *Container) Close() {
	if c.QueueWriter != nil {
		_ = c.QueueWriter.Close()
	}
	if c.natsPublisher != nil {
		c.natsPublisher.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	_ = c.Logger.Sync()
}

// newRedisClient returns nil when Redis is not configured or not reachable;
// the hub then runs single-instance.
func newRedisClient(cfg *config.Config, log logger.ILogger) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unreachable", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func loadSuggestionTree(path string) (*suggestion.Tree, error) {
	if path == "" {
		return suggestion.Default()
	}
	return suggestion.LoadFile(path)
}

// OpenDatabase connects with the configured driver and migrates when enabled.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewGormDB(database.GormConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.Connection,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogQueries:      cfg.Database.LogQueries,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := model.Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
