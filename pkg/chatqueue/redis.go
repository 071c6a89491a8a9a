package chatqueue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shop-chatbot-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisKey  = "chatbot:message_queue"
	DefaultBatchSize = 50
	DefaultInterval  = time.Second
	errorBackoff     = 5 * time.Second
)

// ListClient is the part of a Redis client the list queue needs.
type ListClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LPopCount(ctx context.Context, key string, count int) *redis.StringSliceCmd
}

// RedisWriter appends records to a Redis list.
type RedisWriter struct {
	rdb ListClient
	key string
}

func NewRedisWriter(rdb ListClient, key string) *RedisWriter {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisWriter{rdb: rdb, key: key}
}

func (w *RedisWriter) Enqueue(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return w.rdb.RPush(ctx, w.key, payload).Err()
}

func (w *RedisWriter) Close() error {
	return nil
}

// RedisDrainer pops batches off the list and hands them to a Handler. A
// failed batch is pushed back to the head of the list in its original order.
type RedisDrainer struct {
	rdb       ListClient
	key       string
	batchSize int
	interval  time.Duration
	handler   Handler
	logger    logger.ILogger
}

func NewRedisDrainer(rdb ListClient, key string, batchSize int, interval time.Duration, handler Handler, log logger.ILogger) *RedisDrainer {
	if key == "" {
		key = DefaultRedisKey
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RedisDrainer{rdb: rdb, key: key, batchSize: batchSize, interval: interval, handler: handler, logger: log}
}

// Run drains until ctx is cancelled. It sleeps for the interval when the
// list is empty and backs off after a failed batch.
func (d *RedisDrainer) Run(ctx context.Context) error {
	d.logger.Info("QueueWorker", "Redis drainer started", map[string]interface{}{
		"key":        d.key,
		"batch_size": d.batchSize,
	})
	for {
		n, err := d.DrainOnce(ctx)
		wait := time.Duration(0)
		switch {
		case err != nil:
			d.logger.Error("QueueWorker", "Batch failed", map[string]interface{}{"error": err.Error()})
			wait = errorBackoff
		case n == 0:
			wait = d.interval
		}

		if wait == 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// DrainOnce handles at most one batch and returns how many raw entries it
// popped.
func (d *RedisDrainer) DrainOnce(ctx context.Context) (int, error) {
	raw, err := d.rdb.LPopCount(ctx, d.key, d.batchSize).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}

	batch := make([]Record, 0, len(raw))
	for _, item := range raw {
		rec, err := Decode([]byte(item))
		if err != nil {
			d.logger.Warn("QueueWorker", "Skipping malformed record", map[string]interface{}{"error": err.Error()})
			continue
		}
		batch = append(batch, rec)
	}
	if len(batch) == 0 {
		return len(raw), nil
	}

	if err := d.handler(ctx, batch); err != nil {
		d.requeue(ctx, raw)
		return len(raw), err
	}
	d.logger.Info("QueueWorker", "Batch persisted", map[string]interface{}{"records": len(batch)})
	return len(raw), nil
}

func (d *RedisDrainer) requeue(ctx context.Context, raw []string) {
	// LPUSH inserts one value at a time, so reverse to keep the order.
	values := make([]interface{}, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		values = append(values, raw[i])
	}
	if err := d.rdb.LPush(context.WithoutCancel(ctx), d.key, values...).Err(); err != nil {
		d.logger.Error("QueueWorker", "Requeue failed, batch lost", map[string]interface{}{
			"records": len(raw),
			"error":   err.Error(),
		})
	}
}
