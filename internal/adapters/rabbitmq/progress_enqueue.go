package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/port"
)

const publishTimeout = 10 * time.Second

// ProgressEnqueueAdapter publishes run progress lines to a fanout exchange
// so dashboards and the orchestration layer can follow runs live. It
// implements port.ProgressSinkPort; publish failures are logged and
// swallowed, a broker outage must never fail a run.
type ProgressEnqueueAdapter struct {
	channel  *amqp.Channel
	exchange string
	source   string
}

type progressMessage struct {
	RunID  string    `json:"run_id"`
	Source string    `json:"source"`
	Line   string    `json:"line"`
	SentAt time.Time `json:"sent_at"`
}

func NewProgressEnqueueAdapter(channel *amqp.Channel, exchange, source string) (*ProgressEnqueueAdapter, error) {
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq adapter: channel cannot be nil")
	}
	if exchange == "" {
		return nil, fmt.Errorf("rabbitmq adapter: exchange name cannot be empty")
	}

	err := channel.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq adapter: failed to declare exchange %s: %w", exchange, err)
	}

	return &ProgressEnqueueAdapter{
		channel:  channel,
		exchange: exchange,
		source:   source,
	}, nil
}

func (a *ProgressEnqueueAdapter) Emit(ctx context.Context, line string) {
	logger := contextkeys.LoggerFromContext(ctx)

	body, err := json.Marshal(progressMessage{
		RunID:  contextkeys.RunIDFromContext(ctx).String(),
		Source: a.source,
		Line:   line,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Failed to marshal progress message", err, nil)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = a.channel.PublishWithContext(publishCtx, a.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		logger.Error("Failed to publish progress message", err, port.Fields{
			"exchange": a.exchange,
			"source":   a.source,
		})
	}
}
