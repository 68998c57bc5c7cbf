package worker

// Background goroutine that periodically runs the low-stock sweep. The same
// sweep is also reachable on demand via POST /v1/monitor/run.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// MonitorRunner is the scheduled sweep; service.MonitorService implements it.
type MonitorRunner interface {
	Run(ctx context.Context) (int, error)
}

// StartMonitorCron launches a goroutine that ticks at the given interval and
// runs the low-stock sweep. It respects the context for graceful shutdown.
func StartMonitorCron(ctx context.Context, runner MonitorRunner, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("monitor_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("monitor_cron: shutting down")
				return
			case <-ticker.C:
				count, err := runner.Run(ctx)
				if err != nil {
					log.Error().Err(err).Msg("monitor_cron: sweep failed")
					continue
				}
				log.Info().Int("low_stock_count", count).Msg("monitor_cron: sweep completed")
			}
		}
	}()
}
