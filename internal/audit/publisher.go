// Package audit streams operator decision events to Kafka. The stream
// is advisory: publish failures are logged by the caller and never
// affect the review workflow.
package audit

import (
	"context"
	"encoding/json"

	"complaint-console/internal/common/logger"
	"complaint-console/internal/workflow"

	"github.com/segmentio/kafka-go"
)

type Publisher struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewPublisher(brokers []string, topic string, log logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: log.WithFields(map[string]interface{}{"component": "audit"}),
	}
}

// PublishDecision emits one decision event keyed by complaint id.
func (p *Publisher) PublishDecision(ctx context.Context, e workflow.DecisionEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ComplaintID),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
