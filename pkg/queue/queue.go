// Package queue provides a Redis Streams task queue with a bounded worker pool.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/trendr/pkg/lifecycle"
)

const (
	fieldTask    = "task"
	fieldPayload = "payload"
)

// Message is a task delivered from the stream.
type Message struct {
	ID      string
	Task    string
	Payload json.RawMessage
}

// Decode unmarshals the message payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return nil
}

// System publishes tasks and manages the Redis connection lifecycle.
type System interface {
	// Client returns the underlying Redis client.
	Client() *redis.Client
	// Enqueue appends a task to the stream and returns the stream entry id.
	Enqueue(ctx context.Context, task string, payload any) (string, error)
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the startup ping succeeded.
	Ready() bool
}

type streams struct {
	client *redis.Client
	stream string
	logger *slog.Logger
	ready  atomic.Bool
}

// New creates a queue system from the given configuration.
// No connection is made until Start is called.
func New(cfg *Config, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.Stream, logger)
}

// NewWithClient creates a queue system over an existing client.
func NewWithClient(client *redis.Client, stream string, logger *slog.Logger) System {
	return &streams{
		client: client,
		stream: stream,
		logger: logger.With("system", "queue"),
	}
}

func (s *streams) Client() *redis.Client {
	return s.client
}

func (s *streams) Enqueue(ctx context.Context, task string, payload any) (string, error) {
	if task == "" {
		return "", ErrEmptyTask
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", task, err)
	}

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			fieldTask:    task,
			fieldPayload: string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task, err)
	}

	s.logger.Debug("task enqueued", "task", task, "message_id", id)
	return id, nil
}

func (s *streams) Ready() bool {
	return s.ready.Load()
}

func (s *streams) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting queue connection")

	lc.OnStartup(func() {
		if err := s.client.Ping(lc.Context()).Err(); err != nil {
			s.logger.Error("redis ping failed", "error", err)
			return
		}
		s.ready.Store(true)
		s.logger.Info("redis connection established", "stream", s.stream)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.ready.Store(false)
		s.logger.Info("closing redis connection")
		if err := s.client.Close(); err != nil {
			s.logger.Error("redis close failed", "error", err)
		}
	})

	return nil
}

func parseMessage(msg redis.XMessage) (Message, error) {
	task, ok := msg.Values[fieldTask].(string)
	if !ok || task == "" {
		return Message{ID: msg.ID}, ErrMalformedMessage
	}
	payload, ok := msg.Values[fieldPayload].(string)
	if !ok {
		return Message{ID: msg.ID, Task: task}, ErrMalformedMessage
	}
	return Message{
		ID:      msg.ID,
		Task:    task,
		Payload: json.RawMessage(payload),
	}, nil
}
