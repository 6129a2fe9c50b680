package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"
)

type publisher interface {
	Publish(topic string, body []byte) error
}

// Producer publishes events to an NSQ topic
type Producer struct {
	producer publisher
	stop     func()
	topic    string
}

// NewProducer creates a new NSQ producer and pings the daemon
func NewProducer(address, topic string) (*Producer, error) {
	producer, err := nsq.NewProducer(address, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	if err := producer.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}
	producer.SetLoggerLevel(nsq.LogLevelWarning)
	return &Producer{producer: producer, stop: producer.Stop, topic: topic}, nil
}

// Name identifies the hook in logs
func (p *Producer) Name() string { return "nsq" }

// Handle publishes the event JSON
func (p *Producer) Handle(ctx context.Context, e Event) error {
	msg, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.producer.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Stop gracefully stops the producer
func (p *Producer) Stop() {
	if p.stop != nil {
		p.stop()
	}
}
