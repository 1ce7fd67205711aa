package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"coachdash/config"
)

const sessionCleanupSpec = "@every 30m"

type DraftPurger interface {
	PurgeAbandoned(ctx context.Context, id string) (bool, error)
}

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type Handlers struct {
	drafts    DraftPurger
	sessions  SessionPurger
	scheduler *PurgeScheduler
	recheck   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandlers(drafts DraftPurger, sessions SessionPurger, scheduler *PurgeScheduler, recheck time.Duration, logger *zap.Logger) *Handlers {
	return &Handlers{
		drafts:    drafts,
		sessions:  sessions,
		scheduler: scheduler,
		recheck:   recheck,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDraftPurge, h.handleDraftPurge)
	mux.HandleFunc(TypeSessionCleanup, h.handleSessionCleanup)
	return mux
}

// handleDraftPurge removes staged files of an abandoned draft. A draft that is
// still alive is checked again later.
func (h *Handlers) handleDraftPurge(ctx context.Context, task *asynq.Task) error {
	var p DraftPurgePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.logger.Error("invalid draft purge payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if p.DraftID == "" {
		return fmt.Errorf("draft purge without draft id: %w", asynq.SkipRetry)
	}

	purged, err := h.drafts.PurgeAbandoned(ctx, p.DraftID)
	if err != nil {
		h.logger.Warn("draft purge failed", zap.String("draft_id", p.DraftID), zap.Error(err))
		return err
	}
	if purged {
		return nil
	}

	at := h.now().Add(h.recheck)
	h.logger.Debug("draft still active, purge postponed", zap.String("draft_id", p.DraftID), zap.Time("at", at))
	return h.scheduler.SchedulePurge(ctx, p.DraftID, at)
}

func (h *Handlers) handleSessionCleanup(ctx context.Context, _ *asynq.Task) error {
	_, err := h.sessions.PurgeExpiredSessions(ctx)
	if err != nil {
		h.logger.Warn("session cleanup failed", zap.Error(err))
	}
	return err
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Worker runs the asynq server and the periodic session cleanup.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	handlers  *Handlers
	logger    *zap.Logger
}

func NewWorker(opt asynq.RedisClientOpt, handlers *Handlers, logger *zap.Logger) *Worker {
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: logger.Sugar(),
	})
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Logger: logger.Sugar(),
	})

	return &Worker{
		server:    server,
		scheduler: scheduler,
		handlers:  handlers,
		logger:    logger,
	}
}

func (w *Worker) Start() error {
	if _, err := w.scheduler.Register(sessionCleanupSpec, NewSessionCleanupTask()); err != nil {
		return fmt.Errorf("register session cleanup: %w", err)
	}
	if err := w.server.Start(w.handlers.Mux()); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("start job scheduler: %w", err)
	}
	w.logger.Info("background jobs started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("background jobs stopped")
}
