package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one schedulable unit of work.
type Job interface {
	Run(ctx context.Context) error
}

// ExpiryScheduler fires the daily expiry sweep. Runs never overlap: a
// trigger arriving while a run is in progress is dropped silently.
// The in-progress flag is owned by this object; nothing else mutates
// it.
type ExpiryScheduler struct {
	cronEngine *cron.Cron
	job        Job
	log        *logrus.Logger
	cronSpec   string
	entryID    cron.EntryID
	running    atomic.Bool
}

func NewExpiryScheduler(job Job, log *logrus.Logger, cronSpec string) *ExpiryScheduler {
	return &ExpiryScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		job:        job,
		log:        log,
		cronSpec:   cronSpec,
	}
}

func (s *ExpiryScheduler) Start() error {
	id, err := s.cronEngine.AddFunc(s.cronSpec, s.trigger)
	if err != nil {
		return err
	}
	s.entryID = id
	s.cronEngine.Start()

	next := s.cronEngine.Entry(s.entryID).Next
	s.log.Infof("[domain-expiry] scheduler armed, next run in %ds", int(time.Until(next).Seconds()))
	return nil
}

func (s *ExpiryScheduler) trigger() {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("[domain-expiry] previous run still in progress, trigger dropped")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	if err := s.job.Run(context.Background()); err != nil {
		s.log.Errorf("[domain-expiry] job failed: %v", err)
		return
	}
	s.log.Infof("[domain-expiry] job finished in %dms", time.Since(start).Milliseconds())
}

// Stop halts scheduling and waits for a running job to finish.
func (s *ExpiryScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("[domain-expiry] scheduler stopped")
}
