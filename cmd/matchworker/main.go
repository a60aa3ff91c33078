package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rentmatch_backend/internal/events"
	"rentmatch_backend/internal/leads"
	"rentmatch_backend/internal/matching"
	"rentmatch_backend/internal/orgsettings"
	"rentmatch_backend/internal/properties"
	"rentmatch_backend/internal/scheduler"
	"rentmatch_backend/internal/whatsappleads"
	"rentmatch_backend/platform/config"
	"rentmatch_backend/platform/db"
	"rentmatch_backend/platform/logger"
	"rentmatch_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// matchworker consumes queued match recomputation tasks for WhatsApp leads.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting match worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	vocab, err := matching.LoadVocabulary(cfg.GetMatchingVocabPath())
	if err != nil {
		log.Error("failed to load matching vocabulary", "error", err)
		panic("failed to load matching vocabulary: " + err.Error())
	}

	var redisClient *redis.Client
	if opt, err := redis.ParseURL(cfg.GetRedisURL()); err == nil {
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
	}

	leadsModule := leads.NewModule(pool, eventBus, val)
	leadsModule.RegisterHandlers(eventBus)

	propertiesModule := properties.NewModule(pool, val)
	orgSettingsModule := orgsettings.NewModule(pool, redisClient, cfg.GetWeightsCacheTTL(), log)

	// The worker recomputes matches; it never enqueues, so no scheduler client.
	whatsappModule := whatsappleads.NewModule(
		pool,
		propertiesModule.Service(),
		orgSettingsModule.Service(),
		nil,
		eventBus,
		vocab,
		val,
		log,
	)

	worker, err := scheduler.NewWorker(cfg, whatsappModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize match worker", "error", err)
		panic("failed to initialize match worker: " + err.Error())
	}

	log.Info("match worker listening")
	worker.Run(ctx)
	log.Info("match worker stopped")
}
