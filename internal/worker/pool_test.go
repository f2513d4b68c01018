package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubResult struct {
	err error
}

func (r *stubResult) GetError() error {
	return r.err
}

// stubJob counts executions and optionally blocks or fails
type stubJob struct {
	calls *atomic.Int32
	hold  time.Duration
	fail  bool
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.calls != nil {
		j.calls.Add(1)
	}
	if j.hold > 0 {
		select {
		case <-time.After(j.hold):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{err: errors.New("shard failed")}
	}
	return &stubResult{}
}

// gaugeJob records the highest number of jobs running at once
type gaugeJob struct {
	running *atomic.Int32
	peak    *atomic.Int32
	hold    time.Duration
}

func (j *gaugeJob) Execute(ctx context.Context) Result {
	n := j.running.Add(1)
	for {
		p := j.peak.Load()
		if n <= p || j.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(j.hold)
	j.running.Add(-1)
	return &stubResult{}
}

func TestNewPool_Workers(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{8, 8},
		{1, 1},
		{0, 1},
		{-3, 1},
	}
	for _, tt := range tests {
		if got := NewPool(tt.in).workers; got != tt.want {
			t.Errorf("NewPool(%d).workers = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	for _, workers := range []int{1, 3} {
		pool := NewPool(workers)
		pool.Start()

		var calls atomic.Int32
		// More jobs than the queue buffer holds
		const jobs = 64
		for i := 0; i < jobs; i++ {
			if !pool.Submit(&stubJob{calls: &calls}) {
				t.Fatalf("Submit() rejected job %d", i)
			}
		}

		results := pool.Wait()
		if len(results) != jobs {
			t.Errorf("workers=%d: %d results, want %d", workers, len(results), jobs)
		}
		if calls.Load() != jobs {
			t.Errorf("workers=%d: %d executions, want %d", workers, calls.Load(), jobs)
		}
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const workers = 4
	pool := NewPool(workers)
	pool.Start()

	var running, peak atomic.Int32
	for i := 0; i < 20; i++ {
		pool.Submit(&gaugeJob{running: &running, peak: &peak, hold: 5 * time.Millisecond})
	}
	pool.Wait()

	if peak.Load() > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", peak.Load(), workers)
	}
	if running.Load() != 0 {
		t.Errorf("%d jobs still running after Wait", running.Load())
	}
}

func TestPool_ErrorsStayWithTheirJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&stubJob{})
	pool.Submit(&stubJob{fail: true})
	pool.Submit(&stubJob{})

	failed := 0
	for _, r := range pool.Wait() {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed results = %d, want 1", failed)
	}
}

func TestResultCollector_ResultsIsACopy(t *testing.T) {
	c := NewResultCollector()
	c.Add(&stubResult{})

	got := c.Results()
	got[0] = nil
	c.Add(&stubResult{})

	res := c.Results()
	if len(res) != 2 || res[0] == nil {
		t.Errorf("Results() = %v, want two non-nil results", res)
	}
}

func TestPool_ShutdownThenSubmit(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var calls atomic.Int32
	pool.Submit(&stubJob{calls: &calls, hold: time.Minute})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		if pool.Submit(&stubJob{}) {
			t.Error("Submit() accepted a job after Shutdown")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not interrupt the running job")
	}
}

func TestPoolContext_CancelledBeforeWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPoolContext(ctx, 1)
	pool.Start()
	cancel()

	if pool.Submit(&stubJob{}) {
		t.Error("Submit() accepted a job after cancellation")
	}

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked after cancellation")
	}
}
