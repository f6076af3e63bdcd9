// Package jobs runs long workflows in the background and tracks their progress.
package jobs

import (
	"PersonTracking/internal/entity"
	contextPkg "PersonTracking/pkg/context"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Task is the body of a background job. Returning an error fails the job,
// returning a result completes it.
type Task func(ctx context.Context, progress *Progress) (any, error)

type IOrchestrator interface {
	CreateJob(kind entity.JobKind, totalUnits int) entity.Job
	SetTotalUnits(jobID string, total int)
	UpdateProgress(jobID string, processedUnits int, step string)
	AddWarning(jobID string, warning string)
	CompleteJob(jobID string, result any)
	FailJob(jobID string, message string)
	Get(jobID string) (entity.Job, bool)
	List() []entity.Job
	Run(jobID string, task Task)
	Watch(ctx context.Context, jobID string) <-chan entity.Job
}

type Orchestrator struct {
	log *logrus.Logger

	mu       sync.RWMutex
	jobs     map[string]*entity.Job
	watchers map[string][]chan entity.Job
	now      func() time.Time
	newID    func() string
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		o.newID = newID
	}
}

func NewOrchestrator(log *logrus.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:      log,
		jobs:     make(map[string]*entity.Job),
		watchers: make(map[string][]chan entity.Job),
		now:      time.Now,
		newID: func() string {
			return ulid.Make().String()
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) CreateJob(kind entity.JobKind, totalUnits int) entity.Job {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.newID()
	for _, exists := o.jobs[id]; exists; _, exists = o.jobs[id] {
		id = o.newID()
	}

	job := &entity.Job{
		JobID:       id,
		Kind:        kind,
		Status:      entity.JobStatusPending,
		CurrentStep: "Queued",
		TotalUnits:  max(0, totalUnits),
		CreatedAt:   o.now(),
		Warnings:    []string{},
	}
	o.jobs[id] = job

	return snapshot(job)
}

// SetTotalUnits is used once the size of the work is known, e.g. after frame extraction.
func (o *Orchestrator) SetTotalUnits(jobID string, total int) {
	o.mutate(jobID, func(job *entity.Job) {
		job.TotalUnits = max(0, total)
		job.ProgressPercentage = max(job.ProgressPercentage, percentage(job.ProcessedUnits, job.TotalUnits))
	})
}

// UpdateProgress moves a job to Processing and recomputes its percentage as
// floor(processed / total * 100). The percentage never decreases and stays
// below 100 until the job completes. A zero total reports 0%.
func (o *Orchestrator) UpdateProgress(jobID string, processedUnits int, step string) {
	o.mutate(jobID, func(job *entity.Job) {
		job.Status = entity.JobStatusProcessing
		job.ProcessedUnits = max(job.ProcessedUnits, max(0, processedUnits))
		job.ProgressPercentage = max(job.ProgressPercentage, percentage(job.ProcessedUnits, job.TotalUnits))
		if step != "" {
			job.CurrentStep = step
		}
	})
}

func (o *Orchestrator) AddWarning(jobID string, warning string) {
	o.mutate(jobID, func(job *entity.Job) {
		job.Warnings = append(job.Warnings, warning)
	})
}

func (o *Orchestrator) CompleteJob(jobID string, result any) {
	o.mutate(jobID, func(job *entity.Job) {
		now := o.now()
		job.Status = entity.JobStatusCompleted
		job.ProgressPercentage = 100
		job.CurrentStep = "Completed"
		job.CompletedAt = &now
		job.Result = result
	})
}

func (o *Orchestrator) FailJob(jobID string, message string) {
	o.mutate(jobID, func(job *entity.Job) {
		now := o.now()
		job.Status = entity.JobStatusFailed
		job.CurrentStep = "Failed"
		job.CompletedAt = &now
		job.ErrorMessage = message
	})
}

func (o *Orchestrator) Get(jobID string) (entity.Job, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	job, ok := o.jobs[jobID]
	if !ok {
		return entity.Job{}, false
	}
	return snapshot(job), true
}

// List returns every job, newest first.
func (o *Orchestrator) List() []entity.Job {
	o.mu.RLock()
	defer o.mu.RUnlock()

	jobs := make([]entity.Job, 0, len(o.jobs))
	for _, job := range o.jobs {
		jobs = append(jobs, snapshot(job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].JobID > jobs[j].JobID
	})
	return jobs
}

// Run executes task on its own goroutine. Whatever happens inside, including
// a panic, the job ends in Completed or Failed.
func (o *Orchestrator) Run(jobID string, task Task) {
	if _, ok := o.Get(jobID); !ok {
		o.log.WithField("job_id", jobID).Warn("Run called for unknown job")
		return
	}

	go func() {
		start := time.Now()
		progress := &Progress{orchestrator: o, jobID: jobID}

		defer func() {
			if r := recover(); r != nil {
				o.log.WithFields(logrus.Fields{
					"job_id": jobID,
					"panic":  fmt.Sprint(r),
				}).Error("Job panicked")
				o.FailJob(jobID, fmt.Sprintf("internal error: %v", r))
			}
		}()

		result, err := task(contextPkg.WithJobID(context.Background(), jobID), progress)
		if err != nil {
			o.log.WithFields(logrus.Fields{
				"job_id":      jobID,
				"error":       err.Error(),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Error("Job failed")
			o.FailJob(jobID, err.Error())
			return
		}

		o.log.WithFields(logrus.Fields{
			"job_id":      jobID,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Job completed")
		o.CompleteJob(jobID, result)
	}()
}

// Watch streams a snapshot of the job after every change. The channel is
// closed once the job is terminal or ctx is done. Slow readers only see the
// latest state.
func (o *Orchestrator) Watch(ctx context.Context, jobID string) <-chan entity.Job {
	ch := make(chan entity.Job, 1)

	o.mu.Lock()
	job, ok := o.jobs[jobID]
	if !ok {
		o.mu.Unlock()
		close(ch)
		return ch
	}

	ch <- snapshot(job)
	if job.Status.IsTerminal() {
		o.mu.Unlock()
		close(ch)
		return ch
	}
	o.watchers[jobID] = append(o.watchers[jobID], ch)
	o.mu.Unlock()

	go func() {
		<-ctx.Done()
		o.mu.Lock()
		defer o.mu.Unlock()

		watchers := o.watchers[jobID]
		for i, w := range watchers {
			if w == ch {
				o.watchers[jobID] = append(watchers[:i], watchers[i+1:]...)
				close(ch)
				return
			}
		}
	}()

	return ch
}

// mutate applies fn to a non-terminal job and notifies watchers. Unknown and
// terminal jobs are left untouched.
func (o *Orchestrator) mutate(jobID string, fn func(job *entity.Job)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	job, ok := o.jobs[jobID]
	if !ok || job.Status.IsTerminal() {
		return
	}

	fn(job)
	o.notify(job)
}

func (o *Orchestrator) notify(job *entity.Job) {
	watchers := o.watchers[job.JobID]
	if len(watchers) == 0 {
		return
	}

	snap := snapshot(job)
	for _, ch := range watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}

	if job.Status.IsTerminal() {
		for _, ch := range watchers {
			close(ch)
		}
		delete(o.watchers, job.JobID)
	}
}

func percentage(processed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := processed * 100 / total
	return min(max(pct, 0), 99)
}

func snapshot(job *entity.Job) entity.Job {
	clone := *job
	clone.Warnings = append([]string{}, job.Warnings...)
	if job.CompletedAt != nil {
		completed := *job.CompletedAt
		clone.CompletedAt = &completed
	}
	return clone
}
