package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pratik980/GharNirman-sub000/config"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
	"github.com/Pratik980/GharNirman-sub000/pkg/helpers"
)

// The notify worker drains queued push jobs and performs the actual
// transport publishes, so a slow or flapping transport never backs up
// the API process. Failed publishes are requeued once; the durable
// notification rows were already written by the dispatcher, so a
// dropped push only costs latency, never data.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQPushQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	var transport realtime.Transport
	switch cfg.RealtimeDriver {
	case "redis":
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		transport = realtime.NewRedisTransport(rdb)
	default:
		transport = realtime.NewPusherTransport(cfg.PusherAppID, cfg.PusherKey, cfg.PusherSecret, cfg.PusherCluster, cfg.PushTimeout)
	}
	pushRouter := realtime.NewRouter(transport, logger)
	pushRouter.Timeout = cfg.PushTimeout

	consumer, msgs, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQPushQueue, cfg.PushWorkerPrefetch)
	if err != nil {
		log.Fatalf("amqp consume: %v", err)
	}
	defer consumer.Close()

	ctx := context.Background()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var job realtime.PushJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Warn("bad push job, dropping")
				_ = msg.Nack(false, false)
				continue
			}

			var payload any
			if len(job.Payload) > 0 {
				payload = json.RawMessage(job.Payload)
			}
			if err := pushRouter.Push(ctx, job.Destination, job.Event, payload); err != nil {
				// Requeue only first-time failures.
				_ = msg.Nack(false, !msg.Redelivered)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	logger.Infof("notify worker listening on queue=%s", cfg.RabbitMQPushQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
