package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"logsaas-lite/internal/config"
	"logsaas-lite/internal/domain"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type ProducerClient struct {
	producer *wbkafka.Producer
	strategy retry.Strategy
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic),
		strategy: cfg.DefaultRetryStrategy(),
	}
}

func (p *ProducerClient) PublishFileUploaded(ctx context.Context, event *domain.FileUploadedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.producer.SendWithRetry(ctx, p.strategy, []byte(event.ID), value); err != nil {
		return fmt.Errorf("failed to send event %s: %w", event.ID, err)
	}

	return nil
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
