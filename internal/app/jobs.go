package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/pkg/metrics"
)

// TopicSessionsSwept carries the browser ids dropped by the idle
// sweep so dependent state holders can discard theirs too.
const TopicSessionsSwept = "sessions:swept"

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 1h", func() {
		a.sweepSessions(time.Duration(a.appConfig.Web.SessionMaxAge) * time.Second)
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 5m", func() {
		zap.S().Debugf("last hour: %d http requests, %d backend calls, %d orders",
			int(metrics.CounterSum(metrics.MetricHTTPRequest, time.Hour)),
			int(metrics.CounterSum(metrics.MetricBackendCall, time.Hour)),
			int(metrics.CounterSum(metrics.MetricOrderCreated, time.Hour)))
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// sweepSessions drops browser sessions idle beyond maxIdle together
// with their carts, plus carts whose browsers never authenticated.
// The swept ids are published so other per-browser state holders can
// discard theirs.
func (a *Application) sweepSessions(maxIdle time.Duration) {
	stale := a.store.Sweep(maxIdle)
	stale = append(stale, a.carts.SweepIdle(maxIdle)...)
	if len(stale) == 0 {
		return
	}
	a.carts.Drop(stale...)
	a.bus.Publish(TopicSessionsSwept, stale)
	zap.S().Infof("swept %d idle browser sessions", len(stale))
}
