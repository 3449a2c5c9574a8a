package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaNotifier publishes events to Kafka. Produce is asynchronous: the
// promise only logs delivery failures, so a broker outage cannot fail or
// roll back the order that triggered the event.
type KafkaNotifier struct {
	client *kgo.Client
}

func NewKafkaNotifier(brokers []string) (*KafkaNotifier, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchMaxBytes(1 << 20),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaNotifier{client: client}, nil
}

func (n *KafkaNotifier) Emit(ctx context.Context, e Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		slog.Error("notify: marshal event", slog.String("type", e.Type), slog.String("error", err.Error()))
		return
	}

	topic := TopicOrderPlaced
	if e.Type == TypeStatusChange {
		topic = TopicOrderStatusChanged
	}

	record := &kgo.Record{Topic: topic, Key: []byte(e.ActorID), Value: value}
	n.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			slog.Error("notify: produce failed",
				slog.String("topic", topic),
				slog.String("error", err.Error()),
			)
		}
	})
}

func (n *KafkaNotifier) Close() { n.client.Close() }
