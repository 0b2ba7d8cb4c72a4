package runner

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

// Schedule runs RunOnce on the cron expression expr until ctx is cancelled.
// A tick that fires while the previous cycle is still running is skipped.
// With runOnStart a cycle is run immediately, before the first tick.
func (r *Runner) Schedule(ctx context.Context, expr string, runOnStart bool) error {
	cl := cronLogger{s: r.log.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(expr, func() { _, _ = r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("register schedule %q: %w", expr, err)
	}

	r.log.Info("funding scheduler started", zap.String("schedule", expr))
	if runOnStart {
		_, _ = r.RunOnce(ctx)
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	r.log.Info("funding scheduler stopped")
	return nil
}
