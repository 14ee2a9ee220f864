package auditlogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/fieldops/apigate/pkg/config"
)

// KafkaExporter publishes audit events to the platform audit topic.
type KafkaExporter struct {
	cfg      config.KafkaConfig
	producer *kafka.Producer
}

func NewKafkaExporter(cfg config.KafkaConfig) (*KafkaExporter, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.Topic == "" {
		return nil, errors.New("kafka host, port and topic are required")
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &KafkaExporter{
		cfg:      cfg,
		producer: producer,
	}, nil
}

func (e *KafkaExporter) Name() string {
	return "kafka"
}

func (e *KafkaExporter) Export(_ context.Context, event Event) error {
	if e.producer == nil {
		return errors.New("kafka producer is not initialized")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	deliveryChan := make(chan kafka.Event)
	err = e.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &e.cfg.Topic, Partition: kafka.PartitionAny},
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce audit message: %w", err)
	}

	ev := <-deliveryChan
	if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
		return fmt.Errorf("audit message delivery failed: %w", m.TopicPartition.Error)
	}
	return nil
}

func (e *KafkaExporter) Close() error {
	if e.producer != nil {
		e.producer.Close()
	}
	return nil
}
