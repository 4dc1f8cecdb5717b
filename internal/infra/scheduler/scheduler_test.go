package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type countingJob struct {
	runs    int32
	err     error
	started chan struct{}
	release chan struct{}
}

func (j *countingJob) Run(context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	if j.started != nil {
		j.started <- struct{}{}
	}
	if j.release != nil {
		<-j.release
	}
	return j.err
}

func TestStartWithInvalidSpec(t *testing.T) {
	s := NewExpiryScheduler(&countingJob{}, testLogger(), "not a cron spec")
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewExpiryScheduler(&countingJob{}, testLogger(), "0 3 * * *")
	require.NoError(t, s.Start())
	s.Stop()
}

func TestTriggerRunsJob(t *testing.T) {
	job := &countingJob{}
	s := NewExpiryScheduler(job, testLogger(), "0 3 * * *")

	s.trigger()
	s.trigger()
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.runs))
}

func TestTriggerSwallowsJobError(t *testing.T) {
	job := &countingJob{err: fmt.Errorf("sweep failed")}
	s := NewExpiryScheduler(job, testLogger(), "0 3 * * *")

	s.trigger()
	s.trigger()
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.runs), "a failed run must not wedge the scheduler")
}

func TestOverlappingTriggerDropped(t *testing.T) {
	job := &countingJob{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := NewExpiryScheduler(job, testLogger(), "0 3 * * *")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.trigger()
	}()
	<-job.started

	// A trigger arriving mid-run returns immediately without a second
	// job execution.
	s.trigger()
	assert.Equal(t, int32(1), atomic.LoadInt32(&job.runs))

	close(job.release)
	wg.Wait()

	// After the run completes the next trigger fires normally.
	job.release = nil
	job.started = nil
	s.trigger()
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.runs))
}
