package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shop-chatbot-be/internal/bootstrap"
	"shop-chatbot-be/internal/config"
	"shop-chatbot-be/internal/pkg/logger"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/internal/service"
	"shop-chatbot-be/pkg/chatqueue"
	"shop-chatbot-be/pkg/events"
	pktNats "shop-chatbot-be/pkg/nats"

	"github.com/redis/go-redis/v9"
)

const durableName = "chat-history-writer"

// The worker persists chat records published to NATS or pushed onto the
// Redis list by the API.
func main() {
	cfg := config.Load()

	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	defer sysLogger.Sync()

	consumer := service.NewConsumerService(nil, cfg.Queue.Topic, unitofwork.NewRepositoryFactory(db), sysLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Queue.Driver {
	case config.QueueNats:
		runNats(ctx, cfg, consumer, sysLogger)
	case config.QueueRedis:
		runRedis(ctx, cfg, consumer, sysLogger)
	default:
		log.Fatalf("Queue driver %q is drained inside the API process; set QUEUE_DRIVER=nats or redis", cfg.Queue.Driver)
	}
	log.Println("Worker stopped")
}

func runNats(ctx context.Context, cfg *config.Config, consumer service.IConsumerService, sysLogger logger.ILogger) {
	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	cc, err := sub.Subscribe(ctx, events.TypeChatMessage, durableName, chatqueue.EventHandler(consumer.Persist))
	if err != nil {
		log.Fatalf("Failed to subscribe to %s: %v", events.TypeChatMessage, err)
	}
	defer cc.Stop()

	log.Printf("✅ Worker consuming %s from NATS", pktNats.Subject(events.TypeChatMessage))
	<-ctx.Done()
}

func runRedis(ctx context.Context, cfg *config.Config, consumer service.IConsumerService, sysLogger logger.ILogger) {
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis unreachable: %v", err)
	}

	drainer := chatqueue.NewRedisDrainer(rdb, cfg.Queue.RedisKey, cfg.Queue.BatchSize, cfg.Queue.BatchInterval, consumer.Persist, sysLogger)
	log.Printf("✅ Worker draining %s every %s", cfg.Queue.RedisKey, cfg.Queue.BatchInterval)
	if err := drainer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Drainer stopped: %v", err)
	}
}
