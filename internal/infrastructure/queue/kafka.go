package queue

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
)

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// volumeMessage is the wire format for one published bucket row.
type volumeMessage struct {
	RunID   string  `json:"run_id"`
	Date    int64   `json:"date"`
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// KafkaPublisher pushes the bucket rows of a completed aggregation run to
// a topic for downstream consumers (dashboards, alerting).
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a new publisher, or nil when no brokers are
// configured; callers treat a nil publisher as "publishing disabled".
func NewKafkaPublisher(config KafkaConfig) *KafkaPublisher {
	if len(config.Brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{}, // rows for the same bucket date share a partition
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{writer: writer}
}

// Ensure interface compliance
var _ repository.VolumePublisher = (*KafkaPublisher)(nil)

// PublishVolumeRows writes one message per bucket row, keyed by the
// bucket date.
func (p *KafkaPublisher) PublishVolumeRows(ctx context.Context, runID string, rows []model.VolumeRow) error {
	if len(rows) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(volumeMessage{
			RunID:   runID,
			Date:    row.Date,
			Daily:   row.Daily,
			Weekly:  row.Weekly,
			Monthly: row.Monthly,
		})
		if err != nil {
			return err
		}
		msgs[i] = kafka.Message{
			Key:   []byte(strconv.FormatInt(row.Date, 10)),
			Value: data,
			Time:  time.Now(),
		}
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

// Close closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
