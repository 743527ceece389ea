package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
	"github.com/rlongio/bridgetech-utility/internal/elevator/types"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer drains elevator events from a Kafka topic into the ingest
// service. Message payloads are the same JSON shape as POST /v1/events.
type Consumer struct {
	reader *kafka.Reader
	svc    *service.IngestService
	logger *log.Logger
}

func NewConsumer(cfg KafkaConfig, svc *service.IngestService, logger *log.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &Consumer{reader: reader, svc: svc, logger: logger}
}

// Run consumes until ctx is cancelled. Malformed or invalid messages are
// logged and skipped; an event stream must not wedge on one bad producer.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	c.logger.Printf("kafka: consuming %s", c.reader.Config().Topic)

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var req types.IngestRequest
		if err := json.Unmarshal(m.Value, &req); err != nil {
			c.logger.Printf("kafka: bad payload at offset %d: %v", m.Offset, err)
			continue
		}

		if _, err := c.svc.Record(ctx, req, "kafka"); err != nil {
			c.logger.Printf("kafka: rejected event at offset %d: %v", m.Offset, err)
		}
	}
}
