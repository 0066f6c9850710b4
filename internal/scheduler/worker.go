package scheduler

import (
	"context"
	"fmt"

	purchasesrepo "procurement_backend/internal/purchases/repository"
	"procurement_backend/platform/config"
	"procurement_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DigestSender delivers a rendered unmatched-lines report.
type DigestSender interface {
	SendUnmatchedDigest(ctx context.Context, lines []purchasesrepo.UnmatchedLine) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   purchasesrepo.Repository
	sender DigestSender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender DigestSender, log *logger.Logger) (*Worker, error) {
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
		server: server,
		mux:    mux,
		repo:   purchasesrepo.New(pool),
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskUnmatchedDigest, w.handleUnmatchedDigest)

	return w, nil
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

func (w *Worker) handleUnmatchedDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseUnmatchedDigestPayload(task)
	if err != nil {
		return err
	}

	lines, err := w.repo.ListUnmatched(ctx)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		w.log.Info("unmatched digest skipped, no unmatched lines",
			"requestedAt", payload.RequestedAt)
		return nil
	}

	if err := w.sender.SendUnmatchedDigest(ctx, lines); err != nil {
		return err
	}

	w.log.Info("unmatched digest sent", "lines", len(lines))
	return nil
}
