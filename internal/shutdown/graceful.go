// Package shutdown blocks until a termination signal and then stops the
// service's components in order.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"jobmate/careers-service/internal/logging"
)

// Step is one named component to stop.
type Step struct {
	Name string
	Stop func(ctx context.Context) error
}

// Graceful waits for one of signals (or for ctx to end) and then runs steps
// in order under a shared timeout. Every step runs even if an earlier one
// fails; the joined errors are returned.
func Graceful(ctx context.Context, signals []os.Signal, timeout time.Duration, log *logging.Logger, steps ...Step) error {
	sigCtx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, s := range steps {
		if err := s.Stop(stopCtx); err != nil {
			log.Warn("shutdown step failed", "step", s.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		log.Debug("shutdown step done", "step", s.Name)
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
		return err
	}
	log.Info("graceful shutdown completed successfully")
	return nil
}
