package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"kioskgate/internal/ledger"
	dErrors "kioskgate/pkg/domain-errors"
)

// Publisher appends attendance events to a Kafka topic. Records are keyed by
// device ID so each device's events stay ordered within a partition.
// Append is synchronous: a broker failure comes back to the caller, which
// decides whether to retry the exact same event.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher builds a Publisher over an existing franz-go client. The
// caller owns the client lifecycle.
func NewPublisher(client *kgo.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// NewClient builds the franz-go client the daemon uses for the ledger.
func NewClient(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		// Leave idempotency on so broker-side retries cannot double-append.
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("build kafka client: %w", err)
	}
	return client, nil
}

func (p *Publisher) Append(ctx context.Context, event ledger.AttendanceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal attendance event")
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.DeviceID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeLedgerWrite, "append attendance event")
	}
	return nil
}
