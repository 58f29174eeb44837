//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/adapter/kafka"
	"github.com/couchcryptid/flight-weather-risk/internal/config"
	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	"github.com/couchcryptid/flight-weather-risk/internal/observability"
	"github.com/couchcryptid/flight-weather-risk/internal/pipeline"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-flights"
	testSinkTopic   = "test-risk"
)

var baseNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type publishedAssessment struct {
	Assessment domain.FlightRiskAssessment
	Key        string
	Headers    map[string]string
}

func readAssessment(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedAssessment {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var a domain.FlightRiskAssessment
	require.NoError(t, json.Unmarshal(msg.Value, &a), "unmarshal sink message")
	return publishedAssessment{Assessment: a, Key: string(msg.Key), Headers: headers}
}

func newPipeline(t *testing.T, cfg *config.Config) *pipeline.Pipeline {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	evaluator := pipeline.NewEvaluator(stubSource{now: baseNow}, domain.DefaultWeightTables(),
		clockwork.NewFakeClockAt(baseNow), metrics, discardLogger(), pipeline.EvaluatorConfig{})

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	return pipeline.New(reader, pipeline.NewTransformer(evaluator, discardLogger()), writer, discardLogger(), metrics, 50)
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestPipelineEndToEnd publishes flight events and verifies one assessment
// per flight arrives on the sink topic, keyed by flight ID.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	flights := []domain.Flight{
		{ID: "f-1", FlightNumber: "UA455", Origin: "KDEN", Destination: "KSFO",
			ScheduledDeparture: ptr(baseNow.Add(30 * time.Minute)), ScheduledArrival: ptr(baseNow.Add(3 * time.Hour))},
		{ID: "f-2", Origin: "KORD", Destination: "KBOS"},
		{ID: "f-3", Origin: "egll", Destination: "lfpg",
			ScheduledDeparture: ptr(baseNow.Add(-2 * time.Hour)), ScheduledArrival: ptr(baseNow.Add(time.Hour))},
	}

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	msgs := make([]kafkago.Message, 0, len(flights))
	for _, f := range flights {
		payload, err := json.Marshal(f)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{Key: []byte(f.ID), Value: payload})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	p := newPipeline(t, testConfig(broker, "test-pipeline"))
	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	got := map[string]publishedAssessment{}
	for len(got) < len(flights) {
		pa := readAssessment(ctx, t, consumer)
		got[pa.Key] = pa
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx))

	want := map[string]domain.Phase{
		"f-1": domain.PhaseDeparture,
		"f-2": domain.PhasePreflight,
		"f-3": domain.PhaseEnroute,
	}
	for id, phase := range want {
		pa, ok := got[id]
		require.True(t, ok, "missing assessment for %s", id)
		a := pa.Assessment
		assert.Equal(t, id, a.FlightID)
		assert.Equal(t, phase, a.Phase)
		assert.Equal(t, domain.StatusOK, a.Risk.Status)
		require.NotNil(t, a.Risk.CombinedScore)
		assert.InDelta(t, 1.0, a.Risk.OriginWeight+a.Risk.DestinationWeight, 1e-6)
		assert.Equal(t, string(phase), pa.Headers["phase"])
		assert.Equal(t, "Ok", pa.Headers["status"])
		assert.NotEmpty(t, pa.Headers["tier"])
	}
	assert.Equal(t, "EGLL", got["f-3"].Assessment.Risk.Origin.ICAO)
}

// TestPipelineTransformError verifies that a malformed message is skipped
// and the pipeline continues with valid ones.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	valid, err := json.Marshal(domain.Flight{ID: "f-ok", Origin: "KDEN", Destination: "KSFO"})
	require.NoError(t, err)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad-json"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("bad-icao"), Value: []byte(`{"id":"f-bad","origin":"DEN","destination":"KSFO"}`)},
		kafkago.Message{Key: []byte("f-ok"), Value: valid},
	))

	p := newPipeline(t, testConfig(broker, "test-poison"))
	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	pa := readAssessment(ctx, t, consumer)
	assert.Equal(t, "f-ok", pa.Key)

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
