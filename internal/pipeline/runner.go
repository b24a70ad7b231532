package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// Saver persists a derived table for one topic.
type Saver interface {
	Save(name string, frame *timeseries.Frame) (string, error)
}

// Runner executes pipelines one after another. There is no parallelism and
// no shared state between pipelines; each owns its output file.
type Runner struct {
	store           Saver
	logger          *logrus.Logger
	continueOnError bool
}

func NewRunner(store Saver, logger *logrus.Logger, cfg config.PipelinesConfig) *Runner {
	return &Runner{
		store:           store,
		logger:          logger,
		continueOnError: cfg.ContinueOnError,
	}
}

// Run refreshes every pipeline in order. With continue_on_error set (the
// default) a failed pipeline is logged and the rest still run; otherwise the
// first failure halts the run. An error is returned when any pipeline
// failed, so the driver exits non-zero either way.
func (r *Runner) Run(ctx context.Context, pipelines []Pipeline) error {
	var failed []string

	for _, p := range pipelines {
		log := r.logger.WithField("pipeline", p.Name)
		start := time.Now()

		frame, err := p.Run(ctx)
		if err == nil {
			var path string
			path, err = r.store.Save(p.Name, frame)
			if err == nil {
				log.WithFields(logrus.Fields{
					"rows":     frame.Len(),
					"columns":  len(frame.Columns()),
					"path":     path,
					"duration": time.Since(start).Round(time.Millisecond).String(),
				}).Info("pipeline completed")
				continue
			}
		}

		log.WithError(err).Error("pipeline failed")
		failed = append(failed, p.Name)
		if !r.continueOnError {
			return fmt.Errorf("pipeline %s failed: %w", p.Name, err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d pipeline(s) failed: %v", len(failed), failed)
	}
	return nil
}
