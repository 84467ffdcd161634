package events

import (
	"context"
	"fmt"
)

// Pusher turns notifications into device push requests on the bus.
type Pusher struct {
	bus Bus
}

func NewPusher(bus Bus) *Pusher {
	return &Pusher{bus: bus}
}

// Send is a no-op for users without a registered device.
func (p *Pusher) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		return nil
	}
	err := p.bus.Publish(ctx, SubjectPushDeliver, Push{
		DeviceToken: deviceToken,
		Title:       title,
		Body:        body,
		Data:        data,
	})
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}
