package jobs

import (
	"PersonTracking/internal/entity"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestOrchestrator() *Orchestrator {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewOrchestrator(log)
}

func waitTerminal(t *testing.T, o *Orchestrator, id string) entity.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, _ := o.Get(id)
		if job.Status.IsTerminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return entity.Job{}
}

func TestCreateJob(t *testing.T) {
	o := newTestOrchestrator()
	a := o.CreateJob(entity.JobKindVideoUpload, 10)
	b := o.CreateJob(entity.JobKindTrackByID, 0)

	if a.JobID == "" || a.JobID == b.JobID {
		t.Fatalf("expected unique ids, got %q and %q", a.JobID, b.JobID)
	}
	if a.Status != entity.JobStatusPending || a.ProgressPercentage != 0 {
		t.Errorf("unexpected initial state %+v", a)
	}
}

func TestUpdateProgressZeroTotal(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindVideoUpload, 0)

	o.UpdateProgress(job.JobID, 5, "Extracting frames")

	got, _ := o.Get(job.JobID)
	if got.Status != entity.JobStatusProcessing {
		t.Errorf("expected Processing, got %s", got.Status)
	}
	if got.ProgressPercentage != 0 {
		t.Errorf("expected 0%%, got %d", got.ProgressPercentage)
	}
	if got.CurrentStep != "Extracting frames" {
		t.Errorf("unexpected step %q", got.CurrentStep)
	}
}

func TestUpdateProgressFloorAndMonotonic(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindTrackByID, 3)

	steps := []struct {
		processed int
		want      int
	}{
		{1, 33},
		{2, 66},
		{1, 66},
		{3, 99},
		{10, 99},
	}
	for _, s := range steps {
		o.UpdateProgress(job.JobID, s.processed, "")
		got, _ := o.Get(job.JobID)
		if got.ProgressPercentage != s.want {
			t.Errorf("after %d units: progress = %d, want %d", s.processed, got.ProgressPercentage, s.want)
		}
	}

	o.CompleteJob(job.JobID, "done")
	got, _ := o.Get(job.JobID)
	if got.ProgressPercentage != 100 || got.CompletedAt == nil {
		t.Errorf("expected completed job at 100%%, got %+v", got)
	}
}

func TestTerminalJobsAreImmutable(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindTrackByID, 4)

	o.FailJob(job.JobID, "boom")
	o.UpdateProgress(job.JobID, 4, "late update")
	o.CompleteJob(job.JobID, "late result")
	o.AddWarning(job.JobID, "late warning")

	got, _ := o.Get(job.JobID)
	if got.Status != entity.JobStatusFailed || got.ErrorMessage != "boom" {
		t.Errorf("expected failed job to stay failed, got %+v", got)
	}
	if got.Result != nil || len(got.Warnings) != 0 {
		t.Errorf("terminal job was mutated: %+v", got)
	}
}

func TestUnknownJobIsNoop(t *testing.T) {
	o := newTestOrchestrator()

	o.UpdateProgress("missing", 1, "x")
	o.CompleteJob("missing", nil)
	o.FailJob("missing", "x")
	o.AddWarning("missing", "x")

	if _, ok := o.Get("missing"); ok {
		t.Error("expected unknown job to be not found")
	}
	if len(o.List()) != 0 {
		t.Error("no-op calls must not create jobs")
	}
}

func TestRunCompletes(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindTrackByID, 0)

	o.Run(job.JobID, func(ctx context.Context, p *Progress) (any, error) {
		p.SetTotal(2)
		p.Update(1, "frame 1")
		p.Warn("frame 1 could not be decoded")
		p.Update(2, "frame 2")
		return 42, nil
	})

	got := waitTerminal(t, o, job.JobID)
	if got.Status != entity.JobStatusCompleted || got.Result != 42 {
		t.Errorf("unexpected job %+v", got)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", got.Warnings)
	}
}

func TestRunFails(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindVideoUpload, 0)

	o.Run(job.JobID, func(ctx context.Context, p *Progress) (any, error) {
		return nil, errors.New("detection unavailable")
	})

	got := waitTerminal(t, o, job.JobID)
	if got.Status != entity.JobStatusFailed || got.ErrorMessage != "detection unavailable" {
		t.Errorf("unexpected job %+v", got)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindVideoUpload, 0)

	o.Run(job.JobID, func(ctx context.Context, p *Progress) (any, error) {
		p.Update(0, "starting")
		panic("nil frame")
	})

	got := waitTerminal(t, o, job.JobID)
	if got.Status != entity.JobStatusFailed {
		t.Errorf("expected panic to fail the job, got %s", got.Status)
	}
}

func TestWatchStreamsUntilTerminal(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindTrackByID, 2)

	updates := o.Watch(context.Background(), job.JobID)
	first := <-updates
	if first.Status != entity.JobStatusPending {
		t.Fatalf("expected initial snapshot, got %+v", first)
	}

	o.UpdateProgress(job.JobID, 1, "half")
	o.CompleteJob(job.JobID, nil)

	var last entity.Job
	for j := range updates {
		last = j
	}
	if last.Status != entity.JobStatusCompleted {
		t.Errorf("expected final snapshot to be completed, got %s", last.Status)
	}
}

func TestWatchUnknownJobClosesImmediately(t *testing.T) {
	o := newTestOrchestrator()
	if _, ok := <-o.Watch(context.Background(), "missing"); ok {
		t.Error("expected closed channel")
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	o := newTestOrchestrator()
	job := o.CreateJob(entity.JobKindTrackByID, 2)

	ctx, cancel := context.WithCancel(context.Background())
	updates := o.Watch(ctx, job.JobID)
	<-updates
	cancel()

	select {
	case _, ok := <-updates:
		if ok {
			// a pending update may still be buffered; the next read must see the close
			if _, ok := <-updates; ok {
				t.Error("expected channel to close after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Error("watch did not stop after cancel")
	}
}
