// Package integrity runs the periodic background audit of the attendance
// chain. The monitor only detects and reports: a violated chain stays
// readable and is never repaired, so an alert means an operator has to look
// at the persisted document.
package integrity

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/alert"
	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/ledger"
)

// Config holds integrity monitor configuration.
type Config struct {
	CheckInterval time.Duration
	NotifyTimeout time.Duration
	LedgerName    string
}

// ChainAuditor is the slice of the chain the monitor consumes.
type ChainAuditor interface {
	Validate() *ledger.IntegrityError
}

// MetricsRecordFunc is an optional callback for recording check results.
type MetricsRecordFunc func(valid bool)

// Monitor re-validates the chain on a fixed interval. Alerting is
// transition-based: notifiers fire once when the chain goes from valid to
// invalid, and a recovery is logged when it returns to valid (which can only
// happen after a reset).
type Monitor struct {
	auditor   ChainAuditor
	notifiers []alert.Notifier
	cfg       Config
	onMetrics MetricsRecordFunc
	logger    *zap.Logger

	mu    sync.Mutex
	valid bool
}

// New creates a Monitor. Zero config values fall back to defaults
// (5 minute interval, 30 second notify timeout, ledger name "default").
func New(auditor ChainAuditor, notifiers []alert.Notifier, cfg Config, logger *zap.Logger) *Monitor {
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = 5 * time.Minute
	}
	if cfg.NotifyTimeout == 0 {
		cfg.NotifyTimeout = 30 * time.Second
	}
	if cfg.LedgerName == "" {
		cfg.LedgerName = "default"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Monitor{
		auditor:   auditor,
		notifiers: notifiers,
		cfg:       cfg,
		logger:    logger,
		valid:     true, // a monitor started over a broken chain alerts on its first check
	}
}

// SetMetricsRecord configures the metrics recording callback.
func (m *Monitor) SetMetricsRecord(fn MetricsRecordFunc) {
	m.onMetrics = fn
}

// Start runs the check loop until quit is signalled.
func (m *Monitor) Start(quit <-chan os.Signal) {
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.cfg.NotifyTimeout)
			m.CheckOnce(ctx)
			cancel()
		case <-quit:
			return
		}
	}
}

// CheckOnce audits the chain a single time and reports whether it is valid.
func (m *Monitor) CheckOnce(ctx context.Context) bool {
	violation := m.auditor.Validate()
	valid := violation == nil

	if m.onMetrics != nil {
		m.onMetrics(valid)
	}

	m.mu.Lock()
	wasValid := m.valid
	m.valid = valid
	m.mu.Unlock()

	switch {
	case valid && !wasValid:
		m.logger.Info("integrity: chain recovered", zap.String("ledger", m.cfg.LedgerName))
	case !valid && wasValid:
		m.logger.Warn("integrity: violation detected",
			zap.String("ledger", m.cfg.LedgerName),
			zap.Int("index", violation.Index),
			zap.String("reason", violation.Reason),
		)
		m.dispatch(ctx, alert.Violation{
			LedgerName: m.cfg.LedgerName,
			Index:      violation.Index,
			Reason:     violation.Reason,
			DetectedAt: time.Now().UTC(),
		})
	case !valid:
		// Still broken; the alert already went out on the transition.
		m.logger.Debug("integrity: violation persists",
			zap.Int("index", violation.Index),
			zap.String("reason", violation.Reason),
		)
	}
	return valid
}

// dispatch hands the violation to every configured notifier.
func (m *Monitor) dispatch(ctx context.Context, v alert.Violation) {
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, v); err != nil {
			m.logger.Error("integrity: alert delivery failed", zap.Error(err))
		}
	}
}
