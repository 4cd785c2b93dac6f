// Package blockbuster drives a fixed sequence of content-generation stages
// into a timed A/V script. The orchestrator owns the authoritative pipeline
// state; stages execute strictly sequentially, each consuming the previous
// stage's validated output.
package blockbuster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mediawar/blockbuster/ai"
	"github.com/mediawar/blockbuster/event"
	"github.com/mediawar/blockbuster/history"
	"github.com/mediawar/blockbuster/script"
	"github.com/mediawar/blockbuster/timing"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
)

// Pipeline configures runs. Only one run is active at a time; starting a
// new run implicitly cancels the previous one.
type Pipeline struct {
	Service Service

	// History receives one item per completed run. Nil degrades to a
	// no-op store; a missing store never fails the pipeline.
	History history.Store

	Estimator timing.Estimator

	// MaxRetries is the per-stage retry budget after the first attempt.
	// Zero selects the default of 3; negative disables retries.
	MaxRetries int

	// RetryBaseDelay is the first backoff delay. Zero selects 1s.
	RetryBaseDelay time.Duration

	// StepMode pauses after every stage for operator approval.
	StepMode bool

	Logger *slog.Logger

	mu     sync.Mutex
	active *Run
}

// Start begins a run for topic, cancelling any run already in flight.
func (p *Pipeline) Start(topic string) *Run {
	p.mu.Lock()
	prev := p.active
	r := newRun(p, topic)
	p.active = r
	p.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
	r.start()
	return r
}

// Active returns the most recently started run, or nil.
func (p *Pipeline) Active() *Run {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

type pendingApproval struct {
	stage  Stage
	output script.StageOutput
}

// Run is one pipeline execution. Its process loop is the only writer of
// PipelineState; callers interact through Approve/Cancel/SetStepMode and
// read Snapshot or the event channel.
type Run struct {
	id      string
	topic   string
	modelID string

	runner *stageRunner
	store  history.Store
	logger *slog.Logger

	ctx       context.Context
	cancelCtx context.CancelFunc

	actionQueue chan action
	eventQueue  chan event.Event
	done        chan struct{}

	mu    sync.Mutex
	state PipelineState

	// loop-owned; never touched outside processLoop.
	stageSeq    uint64
	stageCancel context.CancelFunc
	pending     *pendingApproval
}

func newRun(p *Pipeline, topic string) *Run {
	runID := uuid.New().String()

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run", runID)

	retries := p.MaxRetries
	if retries == 0 {
		retries = defaultMaxRetries
	} else if retries < 0 {
		retries = 0
	}
	baseDelay := p.RetryBaseDelay
	if baseDelay == 0 {
		baseDelay = defaultBaseDelay
	}

	estimator := p.Estimator
	if estimator.CharsPerSecond == 0 && estimator.MinBlockSeconds == 0 {
		estimator = timing.NewEstimator()
	}

	store := p.History
	if store == nil {
		store = history.NopStore{}
	}

	modelID := ""
	if ms, ok := p.Service.(*ModelService); ok {
		modelID = ms.ModelID(string(StageNarrate))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Run{
		id:      runID,
		topic:   topic,
		modelID: modelID,
		runner: &stageRunner{
			service:   p.Service,
			caller:    ai.Caller{MaxRetries: retries, BaseDelay: baseDelay, Logger: logger},
			estimator: estimator,
			logger:    logger,
		},
		store:       store,
		logger:      logger,
		ctx:         ctx,
		cancelCtx:   cancel,
		actionQueue: make(chan action, 64),
		eventQueue:  make(chan event.Event, 256),
		done:        make(chan struct{}),
		state:       newPipelineState(runID, topic, p.StepMode),
	}
}

func (r *Run) ID() string    { return r.id }
func (r *Run) Topic() string { return r.topic }

// Events returns the run's ordered event stream. The channel closes when
// the run reaches a terminal state.
func (r *Run) Events() <-chan event.Event { return r.eventQueue }

// Done closes when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Snapshot returns a copy of the current pipeline state.
func (r *Run) Snapshot() PipelineState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Wait blocks until the run terminates and returns the final state. The
// error is non-nil only when the run failed; cancellation is not an error.
func (r *Run) Wait() (PipelineState, error) {
	<-r.done
	st := r.Snapshot()
	if st.CurrentStage == StageFailed {
		return st, errors.New(st.LastError)
	}
	return st, nil
}

// Approve resumes a run suspended in step mode. A non-empty edited string
// replaces the suspended stage's raw output before it feeds the next
// stage; edited structured output is re-validated strictly.
func (r *Run) Approve(edited string) {
	r.post(&approveAction{Edited: edited})
}

// Cancel aborts the run. It is idempotent, valid in any state, and never
// treated as a failure.
func (r *Run) Cancel() {
	r.post(&cancelAction{})
}

// SetStepMode toggles the approval gate for subsequent stage boundaries.
func (r *Run) SetStepMode(enabled bool) {
	r.post(&stepModeAction{Enabled: enabled})
}

func (r *Run) post(a action) {
	select {
	case r.actionQueue <- a:
	case <-r.done:
	}
}

func (r *Run) start() {
	go r.processLoop()
}

func (r *Run) processLoop() {
	defer close(r.done)
	defer close(r.eventQueue)

	r.log(StageIdle, fmt.Sprintf("pipeline started for topic %q", r.topic))
	r.enterStage(pipelineOrder[0])

	for {
		switch a := (<-r.actionQueue).(type) {
		case *stageResultAction:
			r.applyStageResult(a)
		case *approveAction:
			r.applyApproval(a)
		case *cancelAction:
			r.applyCancel()
		case *stepModeAction:
			r.setState(func(st *PipelineState) { st.StepMode = a.Enabled })
		default:
			panic(fmt.Sprintf("unknown action: %T", a))
		}

		if r.Snapshot().CurrentStage.Terminal() {
			return
		}
	}
}

// enterStage launches the stage call in its own goroutine. The result
// arrives back on the action queue tagged with a sequence number so that a
// superseded call can never mutate state.
func (r *Run) enterStage(stage Stage) {
	r.setState(func(st *PipelineState) {
		st.CurrentStage = stage
		st.Processing = true
		if st.StepMode {
			st.Approval = ApprovalProcessing
		} else {
			st.Approval = ApprovalIdle
		}
	})
	r.log(stage, "stage started")
	r.emit(&event.StageStartEvent{Run: r.id, Stage: string(stage), Topic: r.topic})
	r.emitState()

	prompt := buildStageInput(r.Snapshot(), stage)

	r.stageSeq++
	seq := r.stageSeq
	stageCtx, cancel := context.WithCancel(r.ctx)
	r.stageCancel = cancel

	go func() {
		out, err := r.runner.run(stageCtx, stage, prompt)
		r.post(&stageResultAction{Seq: seq, Stage: stage, Output: out, Err: err})
	}()
}

func (r *Run) applyStageResult(a *stageResultAction) {
	if a.Seq != r.stageSeq {
		return // superseded call; result is discarded
	}
	if r.Snapshot().CurrentStage.Terminal() {
		return
	}
	if r.stageCancel != nil {
		r.stageCancel()
		r.stageCancel = nil
	}

	if a.Err != nil {
		if isCancellation(a.Err) {
			// Operator cancel raced the in-flight call; the cancel
			// path owns the transition.
			return
		}
		r.fail(a.Stage, a.Err)
		return
	}

	r.setState(func(st *PipelineState) { st.Outputs[a.Stage] = a.Output })
	r.log(a.Stage, stageSummary(a.Stage, a.Output))
	r.emit(&event.StageCompleteEvent{Run: r.id, Stage: string(a.Stage), Raw: a.Output.Raw})

	if a.Stage == StageNarrate {
		r.complete(a.Output)
		return
	}

	if r.Snapshot().StepMode {
		r.pending = &pendingApproval{stage: a.Stage, output: a.Output}
		r.setState(func(st *PipelineState) {
			st.Processing = false
			st.Approval = ApprovalWaiting
		})
		r.log(a.Stage, "waiting for operator approval")
		r.emit(&event.ApprovalEvent{Run: r.id, Stage: string(a.Stage), Raw: a.Output.Raw})
		r.emitState()
		return
	}

	r.enterStage(a.Stage.next())
}

func (r *Run) applyApproval(a *approveAction) {
	if r.pending == nil {
		r.log(r.Snapshot().CurrentStage, "no approval pending; approve ignored")
		return
	}
	pending := r.pending
	r.pending = nil
	r.setState(func(st *PipelineState) { st.Approval = ApprovalProcessing })

	if a.Edited != "" && a.Edited != pending.output.Raw {
		out, err := r.runner.parse(pending.stage, a.Edited)
		if err != nil {
			r.fail(pending.stage, err)
			return
		}
		r.setState(func(st *PipelineState) { st.Outputs[pending.stage] = out })
		r.log(pending.stage, "operator edit applied")
	}

	r.enterStage(pending.stage.next())
}

func (r *Run) applyCancel() {
	if r.Snapshot().CurrentStage.Terminal() {
		return
	}
	if r.stageCancel != nil {
		r.stageCancel()
		r.stageCancel = nil
	}
	r.cancelCtx()
	r.pending = nil

	r.setState(func(st *PipelineState) {
		st.CurrentStage = StageCompleted
		st.Processing = false
		st.Approval = ApprovalIdle
	})
	r.log(StageCompleted, "stopped by operator")
	r.emitState()
	r.emit(&event.CompletedEvent{Run: r.id, Cancelled: true})
}

func (r *Run) complete(out script.StageOutput) {
	blocks := out.Blocks

	var item *history.Item
	saved, err := r.store.Save(r.ctx, r.topic, r.modelID, blocks)
	if err != nil {
		// History is a collaborator, not a stage: a save failure is
		// logged but never fails a finished run.
		r.log(StageNarrate, fmt.Sprintf("history save failed: %v", err))
	} else {
		item = saved
	}

	r.setState(func(st *PipelineState) {
		st.CurrentStage = StageCompleted
		st.Processing = false
		st.Approval = ApprovalIdle
	})
	r.log(StageCompleted, fmt.Sprintf("pipeline completed: %d blocks, %d words, %s total",
		len(blocks), script.WordCount(blocks), timing.FormatTimecode(timing.TotalDuration(blocks))))
	r.emitState()
	r.emit(&event.CompletedEvent{Run: r.id, Item: item})
}

func (r *Run) fail(stage Stage, err error) {
	msg := failureMessage(stage, err)
	r.setState(func(st *PipelineState) {
		st.CurrentStage = StageFailed
		st.Processing = false
		st.Approval = ApprovalIdle
		st.LastError = msg
	})
	r.log(stage, msg)
	r.emit(&event.ErrorEvent{Run: r.id, Stage: string(stage), Err: err})
	r.emitState()
}

func (r *Run) setState(mutate func(st *PipelineState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mutate(&r.state)
}

func (r *Run) log(stage Stage, message string) {
	line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(stage)), message)
	r.setState(func(st *PipelineState) { st.Logs = append(st.Logs, line) })
	r.logger.Info(message, "stage", string(stage))
	r.emit(&event.LogEvent{Run: r.id, Time: time.Now(), Stage: string(stage), Message: line})
}

func (r *Run) emitState() {
	st := r.Snapshot()
	r.emit(&event.StateEvent{
		Run:        r.id,
		Stage:      string(st.CurrentStage),
		Processing: st.Processing,
		Waiting:    st.Approval == ApprovalWaiting,
	})
}

func (r *Run) emit(evt event.Event) {
	select {
	case r.eventQueue <- evt:
	default:
		// queue full; observers are advisory, never block the pipeline
		r.logger.Warn("event queue full, dropping event")
	}
}

func stageSummary(stage Stage, out script.StageOutput) string {
	switch stage {
	case StageScout:
		return fmt.Sprintf("found %d topic suggestions", len(out.Suggestions))
	case StageResearch:
		d := out.Dossier
		return fmt.Sprintf("dossier compiled: %d claims, %d counter-claims, %d visual anchors",
			len(d.Claims), len(d.CounterClaims), len(d.VisualAnchors))
	case StageNarrate:
		return fmt.Sprintf("script generated: %d blocks, %d words",
			len(out.Blocks), script.WordCount(out.Blocks))
	default:
		return fmt.Sprintf("stage complete (%d chars)", len(out.Raw))
	}
}
