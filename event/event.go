// Package event defines the typed notifications a pipeline run emits to its
// observer. The caller will typically use a switch statement to handle the
// event type:
//
//	for evt := range run.Events() {
//		switch e := evt.(type) {
//		case *event.LogEvent:
//			fmt.Println(e.Message)
//		case *event.ApprovalEvent:
//			// step mode: review e.Raw, then run.Approve(...)
//		case *event.ErrorEvent:
//			fmt.Println(e.Err)
//		case *event.CompletedEvent:
//			// run finished
//		}
//	}
package event

import (
	"time"

	"github.com/mediawar/blockbuster/history"
)

// Event identifies types that can be sent on a run's event channel.
type Event interface {
	RunID() string
}

// LogEvent is one ordered, human-readable log line.
type LogEvent struct {
	Run     string
	Time    time.Time
	Stage   string
	Message string
}

func (e *LogEvent) RunID() string { return e.Run }

// StageStartEvent marks a stage entering execution.
type StageStartEvent struct {
	Run   string
	Stage string
	Topic string
}

func (e *StageStartEvent) RunID() string { return e.Run }

// StageCompleteEvent marks a stage's output being accepted into the
// pipeline state.
type StageCompleteEvent struct {
	Run   string
	Stage string
	Raw   string
}

func (e *StageCompleteEvent) RunID() string { return e.Run }

// ApprovalEvent is emitted in step mode when the run suspends and waits for
// the operator. Raw holds the stage output that may be edited before it
// propagates to the next stage.
type ApprovalEvent struct {
	Run   string
	Stage string
	Raw   string
}

func (e *ApprovalEvent) RunID() string { return e.Run }

// StateEvent is a snapshot summary for observers that track progress
// without polling.
type StateEvent struct {
	Run        string
	Stage      string
	Processing bool
	Waiting    bool
}

func (e *StateEvent) RunID() string { return e.Run }

// ErrorEvent reports the single failure that moved the run to its failed
// state.
type ErrorEvent struct {
	Run   string
	Stage string
	Err   error
}

func (e *ErrorEvent) RunID() string { return e.Run }

// CompletedEvent is the final event of a successful or cancelled run. Item
// is nil when the run was cancelled or no history store is configured.
type CompletedEvent struct {
	Run       string
	Cancelled bool
	Item      *history.Item
}

func (e *CompletedEvent) RunID() string { return e.Run }
