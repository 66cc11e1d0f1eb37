package liquidation

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"

	"revloans/core"
	"revloans/worker"
)

// Worker liquidation sweeper: periodically liquidates positions past
// the liquidation horizon in bounded batches. Liveness depends on the
// schedule firing, not on any single sweep draining the backlog.
type Worker struct {
	worker.BaseJob
	loanService core.ILoanService
	batch       int
}

// New new liquidation worker
func New(cfg *core.Config, loanSrv core.ILoanService) *Worker {
	w := Worker{
		loanService: loanSrv,
		batch:       cfg.Worker.LiquidationBatch,
	}

	if w.batch <= 0 {
		w.batch = 100
	}

	spec := cfg.Worker.LiquidationInterval
	if spec == "" {
		spec = "@every 1m"
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	w.Cron = cron.New(cron.WithLocation(l))
	w.Cron.AddFunc(spec, w.BaseJob.Run)

	return &w
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "liquidation")
	ctx = logger.WithContext(ctx, log)

	w.OnWork = func() error {
		return w.onWork(ctx)
	}

	return w.StartAndWait(ctx)
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	count, err := w.loanService.LiquidateExpired(ctx, w.batch)
	if err != nil {
		log.WithError(err).Errorln("LiquidateExpired")
		return err
	}

	if count > 0 {
		log.Infoln("liquidated", count, "expired loans")
	}

	return nil
}
