package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oggyb/ember/internal/logger"
	"github.com/oggyb/ember/internal/observability"
)

// Routing keys for the change feed. One event per create/update the core
// performs; delivery beyond the exchange is a consumer concern.
const (
	KeySwipeCreated   = "swipe.created"
	KeyMatchCreated   = "match.created"
	KeyMessageCreated = "message.created"
	KeyMessageRead    = "message.read"
	KeyPostCreated    = "post.created"
	KeyPostLiked      = "post.liked"
	KeyPostUnliked    = "post.unliked"
	KeyCommentCreated = "comment.created"
	KeyCommentDeleted = "comment.deleted"
	KeyUserBlocked    = "user.blocked"
	KeyUserReported   = "user.reported"
)

// Envelope wraps every published change event.
type Envelope struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher publishes change events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// NewPublisher builds an AMQP publisher or a noop publisher when AMQP is
// disabled or unreachable. Startup never fails on a missing broker; the
// change feed degrades to log lines.
func NewPublisher(amqpURL, exchange string) Publisher {
	if amqpURL == "" {
		logger.Info("amqp disabled, events go to log only")
		return noopPublisher{}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		logger.Warn("amqp unreachable, events go to log only", "err", err)
		return noopPublisher{}
	}

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("amqp channel failed, events go to log only", "err", err)
		_ = conn.Close()
		return noopPublisher{}
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		logger.Warn("amqp exchange declare failed, events go to log only", "err", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{}
	}

	logger.Info("amqp connected", "exchange", exchange)
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(Envelope{
		Kind:       routingKey,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		observability.IncPublishError()
		logger.Warn("amqp publish failed", "key", routingKey, "err", err)
	}
	return err
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	logger.Debug("event", "key", routingKey)
	return nil
}

func (noopPublisher) Close() error { return nil }
