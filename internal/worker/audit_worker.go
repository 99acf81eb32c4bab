// Package worker hosts the background loops that run beside the HTTP
// surface.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/davidalade/wallet-ledger/internal/observability"
	"github.com/davidalade/wallet-ledger/internal/repository"
	"go.uber.org/zap"
)

// AuditWorker periodically recomputes every wallet balance from its SUCCESS
// transaction rows and reports wallets that drifted. It is read-only: drift
// is an alarm condition, never something to silently repair.
type AuditWorker struct {
	store    *repository.Store
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewAuditWorker constructs a worker with a default daily interval.
func NewAuditWorker(store *repository.Store) *AuditWorker {
	return &AuditWorker{
		store:    store,
		interval: 24 * time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *AuditWorker) WithInterval(interval time.Duration) *AuditWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and runs the audit at the configured interval.
func (w *AuditWorker) Start(ctx context.Context) {
	zap.L().Info("ledger audit worker starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately at startup.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("ledger audit worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("ledger audit worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *AuditWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *AuditWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *AuditWorker) runOnce(ctx context.Context) {
	drifts, err := w.store.Repo().ListBalanceDrift(ctx)
	if err != nil {
		observability.IncrementWorkerRun("ledger_audit", "failed")
		zap.L().Error("ledger audit run failed", zap.Error(err))
		return
	}

	if len(drifts) == 0 {
		observability.IncrementWorkerRun("ledger_audit", "success")
		zap.L().Info("ledger audit clean")
		return
	}

	observability.AddBalanceDrift(len(drifts))
	observability.IncrementWorkerRun("ledger_audit", "drift")
	for _, d := range drifts {
		zap.L().Error("CRITICAL: wallet balance drifted from transaction log",
			zap.String("wallet_number", d.WalletNumber),
			zap.Int64("balance_kobo", d.Balance),
			zap.Int64("ledger_net_kobo", d.LedgerNet))
	}
}
