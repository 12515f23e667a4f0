package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jmehdipour/loyalty-admin/internal/model"
)

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration // default 5s
	BatchTimeout time.Duration // default 10ms
}

type Message = kafka.Message

// Producer is a thin wrapper around segmentio/kafka-go Writer.
type Producer struct {
	w *kafka.Writer
}

func NewProducerFromConfig(c Config) *Producer {
	wt := c.WriteTimeout
	if wt <= 0 {
		wt = 5 * time.Second
	}
	bt := c.BatchTimeout
	if bt <= 0 {
		bt = 10 * time.Millisecond
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{}, // same key, same partition
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: wt,
		BatchTimeout: bt,
	}
	return &Producer{w: w}
}

func (p *Producer) Write(ctx context.Context, msgs ...Message) error {
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *Producer) Close() error { return p.w.Close() }

// TierPublisher sends tier change events keyed by tier id, so every change to
// one tier lands on one partition in order.
type TierPublisher struct {
	p *Producer
}

func NewTierPublisher(p *Producer) *TierPublisher { return &TierPublisher{p: p} }

func (t *TierPublisher) Publish(ctx context.Context, ev model.TierEvent) error {
	msg, err := TierMessage(ev)
	if err != nil {
		return err
	}
	return t.p.Write(ctx, msg)
}

// TierMessage encodes ev as a JSON message with the event type in a header.
func TierMessage(ev model.TierEvent) (Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Message{}, fmt.Errorf("marshal tier event: %w", err)
	}
	return Message{
		Key:   []byte(ev.TierID),
		Value: payload,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type.String())},
		},
	}, nil
}
