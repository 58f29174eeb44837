package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/config"
	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes flight risk assessments to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes the assessments in one WriteMessages call. Messages are
// keyed by flight ID so updates for a flight stay on one partition.
func (w *Writer) LoadBatch(ctx context.Context, assessments []domain.FlightRiskAssessment) error {
	if len(assessments) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(assessments))
	for i := range assessments {
		msg, err := serializeToMessage(assessments[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d assessments: %w", len(msgs), err)
	}
	w.logger.Debug("assessments published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(a domain.FlightRiskAssessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize flight risk assessment: %w", err)
	}
	headers := []kafkago.Header{
		{Key: "phase", Value: []byte(a.Phase)},
		{Key: "status", Value: []byte(a.Risk.Status)},
		{Key: "evaluated_at", Value: []byte(a.EvaluatedAt.UTC().Format(time.RFC3339))},
	}
	if a.Risk.Tier != nil {
		headers = append(headers, kafkago.Header{Key: "tier", Value: []byte(*a.Risk.Tier)})
	}
	return kafkago.Message{
		Key:     []byte(a.FlightID),
		Value:   data,
		Headers: headers,
	}, nil
}
