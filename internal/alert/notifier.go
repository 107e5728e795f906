// Package alert delivers chain integrity violations to operator channels.
// The integrity monitor hands every new violation to the configured
// notifiers; which channels exist (log only, email, webhook) is a deployment
// decision.
package alert

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Violation describes a detected break in the chain.
type Violation struct {
	LedgerName string    `json:"ledger_name"`
	Index      int       `json:"index"`
	Reason     string    `json:"reason"`
	DetectedAt time.Time `json:"detected_at"`
}

// Notifier delivers a violation to one operator channel.
type Notifier interface {
	Notify(ctx context.Context, v Violation) error
}

// NoopNotifier logs violations to zap instead of delivering them.
// Use in development or when no alert channel is configured.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a NoopNotifier backed by the given logger.
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

// Notify logs the violation and returns nil.
func (n *NoopNotifier) Notify(_ context.Context, v Violation) error {
	n.logger.Warn("integrity alert (noop, not delivered)",
		zap.String("ledger", v.LedgerName),
		zap.Int("index", v.Index),
		zap.String("reason", v.Reason),
	)
	return nil
}

var (
	_ Notifier = (*NoopNotifier)(nil)
	_ Notifier = (*SMTPNotifier)(nil)
	_ Notifier = (*WebhookNotifier)(nil)
)
