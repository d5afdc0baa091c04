// internal/delivery/mock.go
package delivery

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// MockChannel logs every message instead of sending it and fails a
// configurable fraction of sends. Used when no chat gateway is configured.
type MockChannel struct {
	// FailureRate in [0, 1]; 0.1 mimics a platform that drops one send in ten.
	FailureRate float64
	Log         zerolog.Logger
}

func (m *MockChannel) SendToChannel(ctx context.Context, targetID, text string) error {
	return m.send(ctx, "channel", targetID, text)
}

func (m *MockChannel) SendDirect(ctx context.Context, recipientID, text string) error {
	return m.send(ctx, "direct", recipientID, text)
}

func (m *MockChannel) ResolveRecipientDisplayName(ctx context.Context, recipientID string) (string, error) {
	return "", fmt.Errorf("mock channel has no directory")
}

func (m *MockChannel) send(ctx context.Context, kind, target, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rand.Float64() < m.FailureRate {
		return fmt.Errorf("mock sending failed")
	}
	m.Log.Info().
		Str("kind", kind).
		Str("target", target).
		Str("text", text).
		Msg("mock delivery")
	return nil
}

var _ Channel = (*MockChannel)(nil)
