// kafka.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"rtbf-service/internal/usecase"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// ================================
// KAFKA TOPICS
// ================================

const (
	TopicRTBFEvents = "lifescribe.events.rtbf"
)

// ================================
// KAFKA PRODUCER
// ================================

// RTBFAuditProducer publishes right-to-be-forgotten audit events. Callers
// treat publishes as best-effort; this type only reports the error.
type RTBFAuditProducer struct {
	producer sarama.SyncProducer
}

func NewRTBFAuditProducer(brokers []string) (*RTBFAuditProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return &RTBFAuditProducer{
		producer: producer,
	}, nil
}

func (p *RTBFAuditProducer) Close() error {
	return p.producer.Close()
}

// PublishRTBFEvent publishes an RTBF audit event keyed by user id so all
// events for one account land on the same partition, in order.
func (p *RTBFAuditProducer) PublishRTBFEvent(ctx context.Context, msg *usecase.RTBFEventMessage) error {
	if msg.RequestID == "" {
		msg.RequestID = uuid.NewString()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal rtbf event: %w", err)
	}

	kafkaMsg := &sarama.ProducerMessage{
		Topic: TopicRTBFEvents,
		Key:   sarama.StringEncoder(msg.UserID),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(kafkaMsg); err != nil {
		return fmt.Errorf("failed to publish rtbf event %s: %w", msg.EventType, err)
	}
	return nil
}
