package internal

import (
	"time"
)

// Scheduler coalesces jobs requested during a burst of writes and runs each
// of them once per flush.
type Scheduler struct {
	microtasks *Microtasks

	queue  []Job
	queued map[Job]struct{}

	// set from the moment a flush is scheduled until it completes
	flushing bool

	// settled when the scheduled flush completes
	current *Tick
}

func NewScheduler(m *Microtasks) *Scheduler {
	return &Scheduler{
		microtasks: m,
		queue:      make([]Job, 0),
		queued:     make(map[Job]struct{}),
	}
}

// QueueJob appends job unless it is already pending, and schedules a flush.
func (s *Scheduler) QueueJob(job Job) {
	if _, ok := s.queued[job]; ok {
		return
	}

	s.queued[job] = struct{}{}
	s.queue = append(s.queue, job)

	s.queueFlush()
}

func (s *Scheduler) queueFlush() {
	if s.flushing {
		return
	}
	s.flushing = true

	tick := newTick(s.microtasks)
	s.current = tick

	s.microtasks.Enqueue(func() {
		tick.settle(s.flush())
	})
}

// NextTick returns a tick settled after the pending flush, or an already
// resolved one when nothing is scheduled. With fn, fn runs once it settles.
func (s *Scheduler) NextTick(fn func()) *Tick {
	tick := s.current
	if tick == nil {
		tick = resolvedTick(s.microtasks)
	}

	if fn != nil {
		return tick.Then(fn)
	}

	return tick
}

// Pending reports whether a flush is scheduled or running.
func (s *Scheduler) Pending() bool {
	return s.flushing
}

func (s *Scheduler) flush() (err error) {
	start := time.Now()
	ran := 0

	defer func() {
		s.queue = s.queue[:0]
		clear(s.queued)
		s.flushing = false
		s.current = nil

		if err != nil {
			Logger().Warn("reactivity: flush failed", "jobs", ran, "error", err)
		}

		if observing() {
			notifyFlush(FlushStats{Start: start, Duration: time.Since(start), Jobs: ran, Err: err})
		}
	}()

	// the length is re-read on each iteration: jobs queued by earlier jobs run in this pass
	for i := 0; i < len(s.queue); i++ {
		ran++

		if jobErr := runJob(s.queue[i]); jobErr != nil && err == nil {
			err = jobErr
		}
	}

	return err
}

func runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()

	job.Run()
	return nil
}
