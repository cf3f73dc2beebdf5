package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	headerEventID = "portal-event-id"
	headerRegion  = "portal-region"
)

type KafkaProducerConfig struct {
	Brokers  []string
	ClientID string
	Topic    string
	Region   string
}

type KafkaProducer struct {
	writer *kafka.Writer
	region string
}

func NewKafkaProducer(cfg KafkaProducerConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
		Transport: &kafka.Transport{
			ClientID: cfg.ClientID,
		},
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaProducer{
		writer: writer,
		region: cfg.Region,
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, event Event) error {
	if p.writer.Topic == "" {
		return errors.New("employee topic is not configured")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(uuid.NewString())},
			{Key: headerRegion, Value: []byte(p.region)},
		},
		Time: time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
