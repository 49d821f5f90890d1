package jobs

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"quiniela-finance/pkg/config"
	"quiniela-finance/services/report"
)

var Module = fx.Module("jobs",
	fx.Invoke(RegisterSnapshotJob),
)

// SnapshotJob periodically logs the league collection progress so operators
// can follow it without polling the API.
type SnapshotJob struct {
	reports *report.Service
	log     *zap.Logger
}

func (j *SnapshotJob) Execute() {
	sum, err := j.reports.League(context.Background())
	if err != nil {
		j.log.Warn("collection snapshot failed", zap.Error(err))
		return
	}
	j.log.Info("collection snapshot",
		zap.Int64("total_expected", sum.TotalExpected),
		zap.Int64("total_collected", sum.TotalCollected),
		zap.Int("progress", sum.Progress),
	)
}

// RegisterSnapshotJob wires the snapshot scheduler to the fx lifecycle.
func RegisterSnapshotJob(lc fx.Lifecycle, cfg *config.Config, reports *report.Service, log *zap.Logger) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	job := &SnapshotJob{reports: reports, log: log}
	if _, err := s.NewJob(
		gocron.DurationJob(cfg.Snapshot.Interval),
		gocron.NewTask(job.Execute),
		gocron.WithName("collection_snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown()
		},
	})
	return nil
}
