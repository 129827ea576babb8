// Package notify delivers push notifications about chat events.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultPushoverURL = "https://api.pushover.net"
	pushoverPath       = "/1/messages.json"
)

var ErrDelivery = errors.New("notification not delivered")

// Notifier sends a short message to the chatbot owner.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }

// Delivers reports whether n sends notifications anywhere. It is false for
// nil and Nop.
func Delivers(n Notifier) bool {
	switch n.(type) {
	case nil, Nop, *Nop:
		return false
	}
	return true
}

// PushoverConfig configures the Pushover notifier.
type PushoverConfig struct {
	BaseURL string
	Token   string
	User    string
	Timeout time.Duration
}

// Pushover sends notifications through the Pushover messages API.
type Pushover struct {
	client *resty.Client
	token  string
	user   string
}

// NewPushover builds a Pushover notifier with defaults for BaseURL and Timeout.
func NewPushover(cfg PushoverConfig) *Pushover {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPushoverURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Pushover{client: cli, token: cfg.Token, user: cfg.User}
}

// Notify posts one message.
func (p *Pushover) Notify(ctx context.Context, title, message string) error {
	form := map[string]string{
		"token":   p.token,
		"user":    p.user,
		"message": message,
	}
	if title != "" {
		form["title"] = title
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(pushoverPath)
	if err != nil {
		return fmt.Errorf("pushover request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: pushover status %d: %s", ErrDelivery, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
