package scheduler

import (
	"context"
	"fmt"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/config"
	"rentmatch_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const workerMatchLimit = 10

// LeadMatcher recomputes and persists matches for a WhatsApp lead.
type LeadMatcher interface {
	FindMatches(ctx context.Context, organizationID, id uuid.UUID, limit int) ([]matching.MatchResult, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	matcher LeadMatcher
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, matcher LeadMatcher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		matcher: matcher,
		log:     log,
	}

	mux.HandleFunc(TaskWhatsAppLeadMatch, w.handleWhatsAppLeadMatch)

	return w, nil
}

func (w *Worker) handleWhatsAppLeadMatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWhatsAppLeadMatchPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.WhatsAppLeadID)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return err
	}

	results, err := w.matcher.FindMatches(ctx, orgID, leadID, workerMatchLimit)
	if err != nil {
		return err
	}

	w.log.Info("whatsapp lead matches recomputed",
		"whatsappLeadId", leadID,
		"organizationId", orgID,
		"results", len(results),
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
