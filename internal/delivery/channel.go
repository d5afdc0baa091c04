// internal/delivery/channel.go
package delivery

// Package delivery abstracts the messaging platform's send primitives. The
// dispatch engine depends only on this contract, never on a concrete chat
// platform.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Channel interface {
	// SendToChannel posts text to a shared channel or room.
	SendToChannel(ctx context.Context, targetID, text string) error
	// SendDirect sends text to one recipient.
	SendDirect(ctx context.Context, recipientID, text string) error
	// ResolveRecipientDisplayName returns the recipient's display name, or
	// an error when the platform does not know the recipient.
	ResolveRecipientDisplayName(ctx context.Context, recipientID string) (string, error)
}

// GatewayChannel talks to the chat-platform client service over HTTP.
type GatewayChannel struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewGatewayChannel(baseURL string) *GatewayChannel {
	return &GatewayChannel{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GatewayChannel) SendToChannel(ctx context.Context, targetID, text string) error {
	return g.post(ctx, fmt.Sprintf("/channels/%s/messages", url.PathEscape(targetID)), text)
}

func (g *GatewayChannel) SendDirect(ctx context.Context, recipientID, text string) error {
	return g.post(ctx, fmt.Sprintf("/users/%s/messages", url.PathEscape(recipientID)), text)
}

func (g *GatewayChannel) ResolveRecipientDisplayName(ctx context.Context, recipientID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.BaseURL+fmt.Sprintf("/users/%s", url.PathEscape(recipientID)), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d for user %s", resp.StatusCode, recipientID)
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.DisplayName, nil
}

func (g *GatewayChannel) post(ctx context.Context, path, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Channel = (*GatewayChannel)(nil)
