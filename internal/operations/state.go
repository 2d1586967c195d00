package operations

import (
	"sync"
	"time"

	"conexcli/internal/dataset"
	"conexcli/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
)

// OperationState tracks one pipeline run: its status and timing, the state
// of each step, and the frames the steps hand to each other. Access is
// guarded because the two normalize steps write concurrently.
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	// Step states keyed by step ID
	Steps map[string]*StepState `json:"steps"`

	// Error if the operation failed
	Error error `json:"error,omitempty"`

	coverage    *dataset.Frame
	access      *dataset.Frame
	merged      *dataset.Frame
	mergeStats  *domain.MergeStats
	outputFiles []string
}

// NewOperationState creates a pending operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// GetStep returns the state of a specific step
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stepID]
}

// SetStep updates the state of a specific step
func (p *OperationState) SetStep(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stepID] = state
}

// CoverageFrame returns the most recent coverage frame, nil before loading.
func (p *OperationState) CoverageFrame() *dataset.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.coverage
}

// SetCoverageFrame records the coverage frame for downstream steps.
func (p *OperationState) SetCoverageFrame(frame *dataset.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coverage = frame
}

// AccessFrame returns the most recent access frame, nil before loading.
func (p *OperationState) AccessFrame() *dataset.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.access
}

// SetAccessFrame records the access frame for downstream steps.
func (p *OperationState) SetAccessFrame(frame *dataset.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.access = frame
}

// MergedFrame returns the merged frame, nil before the merge step ran.
func (p *OperationState) MergedFrame() *dataset.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.merged
}

// SetMergedFrame records the merged result frame.
func (p *OperationState) SetMergedFrame(frame *dataset.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.merged = frame
}

// MergeStats returns the join diagnostics, or the zero value when the
// merge step has not run.
func (p *OperationState) MergeStats() domain.MergeStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.mergeStats == nil {
		return domain.MergeStats{}
	}
	return *p.mergeStats
}

// SetMergeStats records the join diagnostics from the merge step.
func (p *OperationState) SetMergeStats(stats domain.MergeStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mergeStats = &stats
}

// OutputFiles returns the paths written by the export step.
func (p *OperationState) OutputFiles() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outputFiles
}

// SetOutputFiles records the paths written by the export step.
func (p *OperationState) SetOutputFiles(files []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputFiles = files
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// HasFailures returns true if any step has failed
func (p *OperationState) HasFailures() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		if step.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// IsComplete returns true if no step is still pending or active
func (p *OperationState) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		status := step.GetStatus()
		if status == StepStatusPending || status == StepStatusActive {
			return false
		}
	}
	return true
}
