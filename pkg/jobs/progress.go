package jobs

// Progress is the handle a running task uses to report on its own job.
type Progress struct {
	orchestrator *Orchestrator
	jobID        string
}

func (p *Progress) JobID() string {
	return p.jobID
}

func (p *Progress) SetTotal(total int) {
	p.orchestrator.SetTotalUnits(p.jobID, total)
}

func (p *Progress) Update(processed int, step string) {
	p.orchestrator.UpdateProgress(p.jobID, processed, step)
}

func (p *Progress) Warn(warning string) {
	p.orchestrator.AddWarning(p.jobID, warning)
}
