package queue

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/trendr/pkg/lifecycle"
)

// Handler processes one message. The message is acknowledged after the
// handler returns whether or not it reports an error.
type Handler func(ctx context.Context, msg Message) error

// Observer receives the outcome of each handled message.
type Observer func(task string, err error)

// Worker consumes the stream through a consumer group and dispatches
// messages to a bounded pool of goroutines.
type Worker struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	workers  int
	block    time.Duration
	handler  Handler
	observe  Observer
	logger   *slog.Logger
}

// NewWorker creates a Worker for the configured stream and group.
func NewWorker(client *redis.Client, cfg *Config, handler Handler, logger *slog.Logger) *Worker {
	return &Worker{
		client:   client,
		stream:   cfg.Stream,
		group:    cfg.Group,
		consumer: cfg.Consumer,
		workers:  cfg.Workers,
		block:    cfg.BlockDuration(),
		handler:  handler,
		logger:   logger.With("system", "worker", "consumer", cfg.Consumer),
	}
}

// Observe sets a callback invoked after each message is handled.
func (w *Worker) Observe(fn Observer) {
	w.observe = fn
}

// Start runs the consume loop in the background until the lifecycle shuts down.
func (w *Worker) Start(lc *lifecycle.Coordinator) error {
	lc.Go(func(ctx context.Context) {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("worker stopped", "error", err)
		}
	})
	return nil
}

// EnsureGroup creates the consumer group and stream if they do not exist.
func (w *Worker) EnsureGroup(ctx context.Context) error {
	err := w.client.XGroupCreateMkStream(ctx, w.stream, w.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Run creates the consumer group, drains messages left pending for this
// consumer, then reads new messages until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.EnsureGroup(ctx); err != nil {
		return err
	}

	w.logger.Info("worker started", "stream", w.stream, "group", w.group, "workers", w.workers)

	for {
		n, err := w.read(ctx, "0", 0)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}

	for {
		if ctx.Err() != nil {
			w.logger.Info("worker stopping")
			return ctx.Err()
		}

		if _, err := w.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("stream read failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// Poll reads at most one batch of new messages, handles them, and returns
// the number processed.
func (w *Worker) Poll(ctx context.Context) (int, error) {
	return w.read(ctx, ">", w.block)
}

func (w *Worker) read(ctx context.Context, start string, block time.Duration) (int, error) {
	args := &redis.XReadGroupArgs{
		Group:    w.group,
		Consumer: w.consumer,
		Streams:  []string{w.stream, start},
		Count:    int64(w.workers),
		Block:    block,
	}
	if block == 0 {
		args.Block = -1
	}

	result, err := w.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	var g errgroup.Group
	g.SetLimit(w.workers)

	count := 0
	for _, s := range result {
		for _, raw := range s.Messages {
			count++
			g.Go(func() error {
				w.process(ctx, raw)
				return nil
			})
		}
	}
	g.Wait()

	return count, nil
}

func (w *Worker) process(ctx context.Context, raw redis.XMessage) {
	defer w.ack(ctx, raw.ID)

	msg, err := parseMessage(raw)
	if err != nil {
		w.logger.Error("dropping message", "message_id", raw.ID, "error", err)
		w.report(msg.Task, err)
		return
	}

	logger := w.logger.With("task", msg.Task, "message_id", msg.ID)
	logger.Info("processing task")

	start := time.Now()
	err = w.safeHandle(ctx, msg)
	if err != nil {
		logger.Error("task failed", "error", err, "duration", time.Since(start))
	} else {
		logger.Info("task completed", "duration", time.Since(start))
	}
	w.report(msg.Task, err)
}

func (w *Worker) safeHandle(ctx context.Context, msg Message) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Task: msg.Task, Value: v}
		}
	}()
	return w.handler(ctx, msg)
}

func (w *Worker) report(task string, err error) {
	if w.observe != nil {
		w.observe(task, err)
	}
}

func (w *Worker) ack(ctx context.Context, id string) {
	ackCtx := context.WithoutCancel(ctx)
	if err := w.client.XAck(ackCtx, w.stream, w.group, id).Err(); err != nil {
		w.logger.Error("ack failed", "message_id", id, "error", err)
	}
}
