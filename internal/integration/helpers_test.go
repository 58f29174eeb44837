//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("flight-risk-test"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func ptr[T any](v T) *T { return &v }

// stubSource serves the same quiet weather for every airport.
type stubSource struct {
	now time.Time
}

func (s stubSource) LatestMetars(_ context.Context, icao string, _ int) ([]domain.Metar, error) {
	return []domain.Metar{{
		ICAO:         icao,
		Observed:     s.now.Add(-20 * time.Minute),
		TempC:        ptr(12.0),
		DewpointC:    ptr(4.0),
		WindDirDeg:   ptr(250),
		WindSpeedKt:  ptr(8),
		VisibilitySM: ptr(10.0),
		Clouds:       []domain.CloudLayer{{Cover: "SCT", BaseFt: ptr(6000)}},
	}}, nil
}

func (s stubSource) Taf(_ context.Context, icao string) (*domain.Taf, error) {
	return &domain.Taf{ICAO: icao, Issued: s.now.Add(-time.Hour)}, nil
}

func (stubSource) Airport(context.Context, string) (*domain.Airport, error) { return nil, nil }

func (stubSource) Hazards(context.Context) ([]domain.HazardFeature, error) { return nil, nil }

func (stubSource) PilotReports(context.Context, string, int) ([]domain.PilotReport, error) {
	return nil, nil
}
