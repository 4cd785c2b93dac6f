package blockbuster

import "github.com/mediawar/blockbuster/script"

// Stage is one step of the fixed generation sequence, plus the terminal
// pseudo-states. Ordering is fixed and total: no stage output exists unless
// every preceding stage output exists.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageScout     Stage = "scout"
	StageDecode    Stage = "decode"
	StageResearch  Stage = "research"
	StageArchitect Stage = "architect"
	StageNarrate   Stage = "narrate"
	StageCompleted Stage = "completed"
	StageFailed    Stage = "failed"
)

// pipelineOrder is the closed, ordered set of generation stages.
var pipelineOrder = []Stage{StageScout, StageDecode, StageResearch, StageArchitect, StageNarrate}

// next returns the stage that follows s in pipeline order. After the last
// generation stage the pipeline completes.
func (s Stage) next() Stage {
	for i, stage := range pipelineOrder {
		if stage != s {
			continue
		}
		if i+1 < len(pipelineOrder) {
			return pipelineOrder[i+1]
		}
		return StageCompleted
	}
	return StageCompleted
}

// Terminal reports whether s is an absorbing state.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// ApprovalStatus tracks the step-mode suspension point.
type ApprovalStatus string

const (
	ApprovalIdle       ApprovalStatus = "idle"
	ApprovalWaiting    ApprovalStatus = "waiting_for_approval"
	ApprovalProcessing ApprovalStatus = "processing"
)

// PipelineState is the authoritative state of one run. It is owned
// exclusively by the run's process loop; everything outside reads copies
// via Snapshot. Invariant: Processing and ApprovalWaiting are mutually
// exclusive.
type PipelineState struct {
	RunID        string
	Topic        string
	CurrentStage Stage
	Processing   bool
	StepMode     bool
	Approval     ApprovalStatus
	Outputs      map[Stage]script.StageOutput
	Logs         []string
	LastError    string
}

func newPipelineState(runID, topic string, stepMode bool) PipelineState {
	return PipelineState{
		RunID:        runID,
		Topic:        topic,
		CurrentStage: StageIdle,
		StepMode:     stepMode,
		Approval:     ApprovalIdle,
		Outputs:      make(map[Stage]script.StageOutput),
	}
}

// Output returns the validated output of stage s, if present.
func (st PipelineState) Output(s Stage) (script.StageOutput, bool) {
	out, ok := st.Outputs[s]
	return out, ok
}

// clone deep-copies the state so snapshots never alias the loop's maps or
// slices.
func (st PipelineState) clone() PipelineState {
	out := st
	out.Outputs = make(map[Stage]script.StageOutput, len(st.Outputs))
	for k, v := range st.Outputs {
		out.Outputs[k] = v
	}
	out.Logs = append([]string(nil), st.Logs...)
	return out
}
