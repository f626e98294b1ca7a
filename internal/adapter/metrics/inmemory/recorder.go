package inmemory

import "sync"

type Snapshot struct {
	ActionTotal    uint64            `json:"action_total"`
	ActionAccepted uint64            `json:"action_accepted"`
	ActionRejected uint64            `json:"action_rejected"`
	EngineFailures uint64            `json:"engine_failures"`
	ByActionKind   map[string]uint64 `json:"by_action_kind"`
	ByRejectCode   map[string]uint64 `json:"by_reject_code"`
}

// Recorder counts action outcomes for the KPI endpoint.
type Recorder struct {
	mu       sync.Mutex
	accepted uint64
	rejected uint64
	failures uint64
	byKind   map[string]uint64
	byCode   map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byKind: map[string]uint64{},
		byCode: map[string]uint64{},
	}
}

func (r *Recorder) RecordAccepted(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted++
	r.byKind[kind]++
}

func (r *Recorder) RecordRejected(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byCode[code]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionAccepted: r.accepted,
		ActionRejected: r.rejected,
		EngineFailures: r.failures,
		ActionTotal:    r.accepted + r.rejected,
		ByActionKind:   make(map[string]uint64, len(r.byKind)),
		ByRejectCode:   make(map[string]uint64, len(r.byCode)),
	}
	for k, v := range r.byKind {
		out.ByActionKind[k] = v
	}
	for k, v := range r.byCode {
		out.ByRejectCode[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
