package indices

import (
	"context"
	"studioboard/infra/metrics"
	"time"

	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	jobFullSync = "indices_full_sync"
	jobRecovery = "indices_recovery"
)

// StartCron schedules the full sync on spec (standard cron syntax or
// descriptors like @daily) and the recovery of pending documents every
// recoveryEvery. The caller stops the returned scheduler.
func StartCron(x *ProjectIndexer, spec string, recoveryEvery time.Duration, m *metrics.JobMetrics) (*cron.Cron, error) {
	crontab := cron.New()
	if _, err := crontab.AddFunc(spec, func() {
		runJob(jobFullSync, m, func() error { return x.FullSync(context.Background()) })
	}); err != nil {
		return nil, err
	}
	if _, err := crontab.AddFunc("@every "+recoveryEvery.String(), func() {
		runJob(jobRecovery, m, func() error { return x.RecoverPending(context.Background()) })
	}); err != nil {
		return nil, err
	}
	crontab.Start()
	return crontab, nil
}

func runJob(name string, m *metrics.JobMetrics, job func() error) {
	start := time.Now()
	err := job()
	m.Observe(name, time.Since(start), err)
	if err != nil {
		logrus.WithField("job", name).Warn("job failed: ", err)
	}
}
