package inmemory

import (
	"sync"

	"townreeve/internal/domain/governance"
)

type Snapshot struct {
	EvaluationTotal uint64            `json:"evaluation_total"`
	RejectedInput   uint64            `json:"rejected_input"`
	ArchiveFailure  uint64            `json:"archive_failure"`
	ByStatus        map[string]uint64 `json:"by_status"`
}

type Recorder struct {
	mu            sync.Mutex
	rejectedInput uint64
	failure       uint64
	byStatus      map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byStatus: map[string]uint64{},
	}
}

func (r *Recorder) RecordOutcome(status governance.ExecutionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byStatus[string(status)]++
}

func (r *Recorder) RecordRejectedInput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejectedInput++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		RejectedInput:  r.rejectedInput,
		ArchiveFailure: r.failure,
		ByStatus:       make(map[string]uint64, len(r.byStatus)),
	}
	for k, v := range r.byStatus {
		out.ByStatus[k] = v
		out.EvaluationTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
