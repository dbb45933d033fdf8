// Package delivery picks the outbound code channel and bounds its latency.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/infrastructure/devotp"
	"github.com/astro-auth-api/internal/infrastructure/smtp"
	"github.com/astro-auth-api/internal/infrastructure/sns"
)

// Sender delivers a plaintext code to an email address.
type Sender interface {
	SendCode(ctx context.Context, to, code string, ttlMinutes int) error
}

// Choose resolves DELIVERY_PROVIDER to a concrete provider name. auto picks
// the first configured of smtp, sns, and (outside production) dev.
func Choose(cfg *config.Config) (string, error) {
	smtpReady := cfg.SMTPHost != ""
	snsReady := cfg.SNSTopicARN != ""

	switch cfg.DeliveryProvider {
	case config.DeliverySMTP:
		if !smtpReady {
			return "", errors.New("delivery: smtp selected but SMTP_HOST is empty")
		}
		return config.DeliverySMTP, nil
	case config.DeliverySNS:
		if !snsReady {
			return "", errors.New("delivery: sns selected but SNS_TOPIC_ARN is empty")
		}
		return config.DeliverySNS, nil
	case config.DeliveryDev:
		if cfg.IsProduction() {
			return "", errors.New("delivery: dev provider is not allowed in production")
		}
		return config.DeliveryDev, nil
	case config.DeliveryAuto, "":
		switch {
		case smtpReady:
			return config.DeliverySMTP, nil
		case snsReady:
			return config.DeliverySNS, nil
		case !cfg.IsProduction():
			return config.DeliveryDev, nil
		}
		return "", errors.New("delivery: no provider configured; set SMTP_HOST or SNS_TOPIC_ARN")
	default:
		return "", fmt.Errorf("delivery: unknown provider %q", cfg.DeliveryProvider)
	}
}

// New builds the sender selected by Choose, bounded by DELIVERY_TIMEOUT.
// The dev store is returned only when the dev provider is active.
func New(cfg *config.Config) (Sender, *devotp.Store, error) {
	provider, err := Choose(cfg)
	if err != nil {
		return nil, nil, err
	}
	var (
		next Sender
		dev  *devotp.Store
	)
	switch provider {
	case config.DeliverySMTP:
		next = smtp.NewCodeMailer(smtp.NewMailer(cfg), cfg.SMTPFromName)
	case config.DeliverySNS:
		ts, err := sns.NewTopicSender(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("delivery: %w", err)
		}
		next = ts
	case config.DeliveryDev:
		dev = devotp.NewStore()
		next = dev
	}
	slog.Info("code delivery configured", "provider", provider, "timeout", cfg.DeliveryTimeout)
	return WithTimeout(next, cfg.DeliveryTimeout), dev, nil
}

type timeoutSender struct {
	next    Sender
	timeout time.Duration
}

// WithTimeout bounds every send to d. The bound is detached from the caller's
// cancellation so a slow request context cannot extend or cut it short.
func WithTimeout(next Sender, d time.Duration) Sender {
	return &timeoutSender{next: next, timeout: d}
}

func (t *timeoutSender) SendCode(ctx context.Context, to, code string, ttlMinutes int) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- t.next.SendCode(ctx, to, code, ttlMinutes) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("send code: %w", ctx.Err())
	}
}
