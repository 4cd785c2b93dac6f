package blockbuster

import "github.com/mediawar/blockbuster/script"

// Operator inputs and stage completions reach the process loop as typed
// actions on a single queue; the loop switches on the concrete type.
type action any

// stageResultAction carries the asynchronous completion of one stage call.
// Seq guards against superseded results: a result whose sequence number no
// longer matches the active stage call is discarded without mutating state.
type stageResultAction struct {
	Seq    uint64
	Stage  Stage
	Output script.StageOutput
	Err    error
}

// approveAction resumes a run suspended in step mode. Edited, when
// non-empty, replaces the stage's raw output before it feeds the next
// stage.
type approveAction struct {
	Edited string
}

// cancelAction aborts the run.
type cancelAction struct{}

type stepModeAction struct {
	Enabled bool
}
