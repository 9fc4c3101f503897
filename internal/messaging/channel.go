// Package messaging carries typed, correlated requests between isolated
// contexts. A context never touches another's state directly: it sends a
// request of a registered Kind and awaits the matching reply.
package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Envelope is one request in flight
type Envelope struct {
	ID      uuid.UUID
	Kind    Kind
	Sent    time.Time
	Payload any
}

type reply struct {
	payload any
	err     error
}

type handlerFunc func(ctx context.Context, env Envelope) (any, error)

// Channel routes requests to the single handler registered for their kind.
// Each request runs on its own goroutine, so a handler may answer
// asynchronously without blocking other senders.
type Channel struct {
	mu       sync.RWMutex
	handlers map[Kind]handlerFunc
	timeout  time.Duration
	logger   *zap.Logger
}

// NewChannel creates a channel. A non-positive timeout selects the default.
func NewChannel(timeout time.Duration, logger *zap.Logger) *Channel {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{
		handlers: make(map[Kind]handlerFunc),
		timeout:  timeout,
		logger:   logger,
	}
}

// Register installs the handler for kind. Req and Resp fix the payload
// types; a sender using other types gets ErrPayloadType.
func Register[Req, Resp any](c *Channel, kind Kind, fn func(ctx context.Context, req Req) (Resp, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.handlers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, kind)
	}

	c.handlers[kind] = func(ctx context.Context, env Envelope) (any, error) {
		req, ok := env.Payload.(Req)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrPayloadType, kind, env.Payload)
		}
		return fn(ctx, req)
	}
	return nil
}

// Send delivers req to the handler for kind and waits for its reply, the
// caller's context, or the channel timeout, whichever comes first.
func Send[Req, Resp any](ctx context.Context, c *Channel, kind Kind, req Req) (Resp, error) {
	var zero Resp

	payload, err := c.send(ctx, kind, req)
	if err != nil {
		return zero, err
	}

	resp, ok := payload.(Resp)
	if !ok {
		return zero, fmt.Errorf("%w: %s replied %T", ErrPayloadType, kind, payload)
	}
	return resp, nil
}

// Kinds returns the registered kinds
func (c *Channel) Kinds() []Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kinds := make([]Kind, 0, len(c.handlers))
	for k := range c.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

func (c *Channel) send(ctx context.Context, kind Kind, payload any) (any, error) {
	c.mu.RLock()
	handler, ok := c.handlers[kind]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, kind)
	}

	env := Envelope{
		ID:      uuid.New(),
		Kind:    kind,
		Sent:    time.Now(),
		Payload: payload,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// buffered so the handler goroutine can always finish
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("handler panicked",
					zap.String("id", env.ID.String()),
					zap.String("kind", string(kind)),
					zap.Any("panic", r))
				done <- reply{err: fmt.Errorf("%w: %s: %v", ErrHandlerPanic, kind, r)}
			}
		}()
		p, err := handler(ctx, env)
		done <- reply{payload: p, err: err}
	}()

	select {
	case r := <-done:
		c.logger.Debug("message handled",
			zap.String("id", env.ID.String()),
			zap.String("kind", string(kind)),
			zap.Duration("elapsed", time.Since(env.Sent)),
			zap.Error(r.err))
		return r.payload, r.err
	case <-ctx.Done():
		c.logger.Warn("message abandoned",
			zap.String("id", env.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(ctx.Err()))
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTimeout, kind, env.ID, ctx.Err())
	}
}
