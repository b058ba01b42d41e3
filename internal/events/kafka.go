package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes domain events to a Kafka topic, keyed by asset ID so all
// events of one asset land on one partition in order.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka builds a Kafka publisher. The caller owns the topic choice;
// brokers is the seed list.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

// payload is the JSON structure written to the topic. Field names are stable:
// downstream consumers deserialize by name.
type payload struct {
	ID             string `json:"id"`
	AssetID        string `json:"asset_id"`
	Action         string `json:"action"`
	Timestamp      string `json:"timestamp"`
	Actor          string `json:"actor,omitempty"`
	Classification string `json:"classification,omitempty"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	ItemID         uint64 `json:"item_id"`
	Amount         uint64 `json:"amount"`
	Capability     string `json:"capability,omitempty"`
	Holder         string `json:"holder,omitempty"`
	Granted        bool   `json:"granted,omitempty"`
	OldValidator   string `json:"old_validator,omitempty"`
	NewValidator   string `json:"new_validator,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

// Publish produces the event synchronously so a broker outage surfaces to the
// emitter (which logs and continues).
func (k *Kafka) Publish(ctx context.Context, event Event) error {
	p := payload{
		ID:             uuid.New().String(),
		AssetID:        event.AssetID.String(),
		Action:         string(event.Action),
		Timestamp:      event.Timestamp.Format(time.RFC3339Nano),
		Actor:          event.Actor.String(),
		Classification: event.Classification.String(),
		From:           event.From.String(),
		To:             event.To.String(),
		ItemID:         event.ItemID,
		Amount:         event.Amount,
		Capability:     event.Capability.String(),
		Holder:         event.Holder.String(),
		Granted:        event.Granted,
		OldValidator:   event.OldValidator,
		NewValidator:   event.NewValidator,
		RequestID:      event.RequestID,
	}
	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.AssetID.String()),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (k *Kafka) Close() {
	k.client.Close()
}
