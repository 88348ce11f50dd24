package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"todoapi/config"
	"todoapi/infras/kafka"
	"todoapi/infras/otel"
	"todoapi/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	TodoCreated       = "todo.created"
	TodoUpdated       = "todo.updated"
	TodoDeleted       = "todo.deleted"
	AttachmentCreated = "attachment.created"
	AttachmentDeleted = "attachment.deleted"
)

// Event records a change to a todo or attachment. Key groups the events of one
// todo on the same partition.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	ResourceID string    `json:"resourceId"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType, key, resourceID string, data any) Event {
	return Event{
		Type:       eventType,
		Key:        key,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type kafkaPublisher struct {
	client kafka.Client
	otel   otel.Otel
}

// NewKafkaPublisher sends events through client.
func NewKafkaPublisher(client kafka.Client, otl otel.Otel) Publisher {
	return &kafkaPublisher{
		client: client,
		otel:   otl,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	messages := make([]kafka.Message, len(events))
	for i, ev := range events {
		messages[i] = kafka.Message{Key: ev.Key, Value: ev}
	}

	if err = p.client.SendMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.client.Close() //nolint:wrapcheck
}

type noopPublisher struct{}

// NewNoop returns a publisher that drops every event.
func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(_ context.Context, events ...Event) error {
	for _, ev := range events {
		log.Debug().Str("type", ev.Type).Str("resource_id", ev.ResourceID).Msg("event publishing disabled, dropping event")
	}

	return nil
}

func (noopPublisher) Close() error {
	return nil
}

// NewPublisher returns the Kafka publisher when enabled and a no-op otherwise.
func NewPublisher(cfg *config.Config, otl otel.Otel) Publisher {
	if !cfg.Kafka.Enable {
		return NewNoop()
	}

	return NewKafkaPublisher(kafka.New(cfg), otl)
}
