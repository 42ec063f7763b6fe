package camunda

import (
	"context"
	"fmt"
	"time"

	"livest/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Message names correlated by the lifecycle processes.
const (
	MessageApplicationSubmitted = "application-submitted"
	MessageApplicationDecided   = "application-decided"
	MessagePropertyCreated      = "property-created"
)

// Message is a domain event handed to the workflow engine.
type Message struct {
	Name           string
	CorrelationKey string
	Variables      map[string]interface{}
}

// Publisher sends domain events to the workflow engine.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// ZeebePublisher publishes messages through a Zeebe gateway.
type ZeebePublisher struct {
	client zbc.Client
	ttl    time.Duration
	retry  *RetryConfig
}

func NewZeebePublisher(client zbc.Client, ttl time.Duration) *ZeebePublisher {
	return &ZeebePublisher{
		client: client,
		ttl:    ttl,
		retry:  &RetryConfig{MaxRetries: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: time.Second},
	}
}

func (p *ZeebePublisher) Publish(ctx context.Context, msg Message) error {
	_, err := executeWithRetry(ctx, p.retry, func(ctx context.Context) (interface{}, error) {
		cmd, err := p.client.NewPublishMessageCommand().
			MessageName(msg.Name).
			CorrelationKey(msg.CorrelationKey).
			TimeToLive(p.ttl).
			VariablesFromMap(msg.Variables)
		if err != nil {
			return nil, fmt.Errorf("encode %s variables: %w", msg.Name, err)
		}
		return cmd.Send(ctx)
	}, "publish "+msg.Name)
	return err
}

// NoopPublisher drops every message. Used when camunda.enabled is false.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Message) error { return nil }

// PublishBestEffort publishes msg and only logs a failure. Side effects after a
// committed write must never fail the request that made the write.
func PublishBestEffort(ctx context.Context, p Publisher, log logger.Logger, msg Message) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, msg); err != nil {
		log.Warn("workflow message not published", map[string]interface{}{
			"message":        msg.Name,
			"correlationKey": msg.CorrelationKey,
			"error":          err.Error(),
		})
	}
}
