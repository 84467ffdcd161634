package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NatsBus publishes core NATS messages carrying the trace context in headers.
type NatsBus struct {
	conn       msgPublisher
	close      func()
	propagator propagation.TextMapPropagator
}

func NewNatsBus(nc *nats.Conn) *NatsBus {
	return &NatsBus{conn: nc, close: nc.Close, propagator: otel.GetTextMapPropagator()}
}

// DialNats connects to url and wraps the connection.
func DialNats(url string) (*NatsBus, error) {
	nc, err := nats.Connect(url, nats.Name("photofeed"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return NewNatsBus(nc), nil
}

func (b *NatsBus) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	b.propagator.Inject(ctx, propagation.HeaderCarrier(msg.Header))

	if err := b.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

func (b *NatsBus) Close() error {
	if b.close != nil {
		b.close()
	}
	return nil
}
