package worker

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Worker a long-running job
type Worker interface {
	Run(ctx context.Context) error
}

type OnWork func() error

// BaseJob cron-driven job skeleton
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

// Run cron callback; skips the tick if the previous run is still going.
func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	_ = job.OnWork()
	job.IsRunning = false
}

// StartAndWait starts the cron schedule and blocks until ctx is done.
func (job *BaseJob) StartAndWait(ctx context.Context) error {
	job.Cron.Start()
	<-ctx.Done()

	stopped := job.Cron.Stop()
	<-stopped.Done()

	return ctx.Err()
}
