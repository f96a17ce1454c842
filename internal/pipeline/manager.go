// Package pipeline runs the inbound processing flow: session context,
// generation, transcript update, and the outbound reply — decoupled from
// webhook acknowledgment by a bounded worker pool.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/euanavitorial/vinnax-bot/internal/agent"
	"github.com/euanavitorial/vinnax-bot/internal/agent/prompts"
	"github.com/euanavitorial/vinnax-bot/internal/backend"
	"github.com/euanavitorial/vinnax-bot/internal/gateway"
	"github.com/euanavitorial/vinnax-bot/internal/session"
)

// ErrQueueFull is returned by Enqueue when the task queue is saturated.
// The webhook still acknowledges 200; the message is dropped, which the
// gateway's redelivery may or may not compensate for.
var ErrQueueFull = errors.New("inbound queue full")

// ErrStopped is returned by Enqueue after the workers have been stopped.
var ErrStopped = errors.New("pipeline stopped")

// Replier produces the terminal reply text for one exchange.
// *agent.Orchestrator satisfies it.
type Replier interface {
	Reply(ctx context.Context, req agent.ReplyRequest) string
}

// TextSender delivers a reply through the messaging gateway.
// *gateway.Client satisfies it.
type TextSender interface {
	SendText(ctx context.Context, number, text string) error
}

// CustomerLookup resolves whether a phone number belongs to a registered
// customer. *backend.Client satisfies it.
type CustomerLookup interface {
	FindClientByPhone(ctx context.Context, phone string) backend.Result
}

type task struct {
	id    string
	event gateway.Event
}

// Manager owns the task queue and worker pool. Workers are started once;
// Enqueue never blocks.
type Manager struct {
	sessions *session.Store
	lookup   CustomerLookup
	replier  Replier
	sender   TextSender
	logger   *slog.Logger

	queue   chan task
	workers int
	once    sync.Once
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager creates a pipeline manager with the given pool bounds.
func NewManager(log *slog.Logger, sessions *session.Store, lookup CustomerLookup, replier Replier, sender TextSender, workers, queueSize int) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Manager{
		sessions: sessions,
		lookup:   lookup,
		replier:  replier,
		sender:   sender,
		logger:   log.With(slog.String("component", "pipeline")),
		queue:    make(chan task, queueSize),
		workers:  workers,
	}
}

// Start launches the worker pool. Subsequent calls are no-ops.
func (m *Manager) Start(ctx context.Context) {
	m.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		m.ctx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
		for i := 0; i < m.workers; i++ {
			m.wg.Add(1)
			go m.runWorker(m.ctx)
		}
	})
}

// Stop cancels the workers and waits for in-flight tasks to finish.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Enqueue hands one normalized event to the pool without blocking.
func (m *Manager) Enqueue(event gateway.Event) error {
	if m.ctx == nil || m.ctx.Err() != nil {
		return ErrStopped
	}
	t := task{id: uuid.NewString(), event: event}
	select {
	case m.queue <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

func (m *Manager) runWorker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-m.queue:
			m.process(ctx, t)
		}
	}
}

// process runs the full flow for one event. Failures here are terminal for
// the message: logged, never surfaced to the webhook response, which has
// long since completed.
func (m *Manager) process(ctx context.Context, t task) {
	log := m.logger.With(
		slog.String("task_id", t.id),
		slog.String("sender", t.event.SenderID),
	)

	hint := m.identityHint(ctx, log, t.event)
	history := m.sessions.History(t.event.SenderID)

	reply := m.replier.Reply(ctx, agent.ReplyRequest{
		SenderPhone:  t.event.SenderID,
		IdentityHint: hint,
		Segments:     agent.BuildContext(hint, history, t.event.Text),
		Text:         t.event.Text,
	})

	m.sessions.AppendExchange(t.event.SenderID,
		session.Turn{Role: session.RoleCustomer, Text: t.event.Text},
		session.Turn{Role: session.RoleAssistant, Text: reply},
	)

	if err := m.sender.SendText(ctx, t.event.Number, reply); err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			log.Warn("gateway not configured; reply not delivered")
			return
		}
		// Best effort only: the customer simply misses this reply.
		log.Error("outbound send failed", slog.Any("error", err))
		return
	}
	log.Info("exchange completed", slog.Int("history_turns", len(history)+2))
}

// identityHint resolves the known/unknown-customer context once per new
// session. Lookup failures skip the hint rather than blocking the reply.
func (m *Manager) identityHint(ctx context.Context, log *slog.Logger, event gateway.Event) string {
	if m.sessions.Known(event.SenderID) {
		return ""
	}
	if m.lookup == nil {
		return ""
	}

	res := m.lookup.FindClientByPhone(ctx, event.SenderID)
	switch res.Status {
	case backend.StatusOK:
		name := customerName(res.AsMap())
		if name == "" {
			name = event.PushName
		}
		return prompts.KnownCustomerHint(name)
	case backend.StatusNotFound:
		return prompts.UnknownCustomerHint()
	default:
		log.Warn("customer lookup failed", slog.String("message", res.Message))
		return ""
	}
}

func customerName(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	name, _ := payload["nome"].(string)
	return strings.TrimSpace(name)
}
