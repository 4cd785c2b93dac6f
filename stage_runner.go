package blockbuster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mediawar/blockbuster/ai"
	"github.com/mediawar/blockbuster/script"
	"github.com/mediawar/blockbuster/timing"
)

// stageRunner invokes one named stage against the generation service. All
// retries live here, inside the single stage call; the orchestrator never
// retries across stages.
type stageRunner struct {
	service   Service
	caller    ai.Caller
	estimator timing.Estimator
	logger    *slog.Logger
}

// run executes stage with the given prompt and returns its validated
// output. The narration stage streams, accumulates, strict-decodes and
// times its blocks before returning.
func (r *stageRunner) run(ctx context.Context, stage Stage, prompt string) (script.StageOutput, error) {
	label := fmt.Sprintf("stage %s", stage)

	var raw string
	var err error
	if stage == StageNarrate {
		// The streaming call and its accumulation are one external call
		// from the retry policy's point of view: an empty stream is
		// retried like any other provider failure.
		raw, err = r.caller.Call(ctx, label, func(ctx context.Context) (string, error) {
			return ai.Accumulate(ctx, func(ctx context.Context, onFragment func(string) error) error {
				return r.service.StreamStage(ctx, string(stage), prompt, onFragment)
			})
		})
	} else {
		raw, err = r.caller.Call(ctx, label, func(ctx context.Context) (string, error) {
			return r.service.RunStage(ctx, string(stage), prompt)
		})
	}
	if err != nil {
		return script.StageOutput{}, err
	}

	return r.parse(stage, raw)
}

// parse validates raw stage text into a typed output. It is also the
// re-validation path for operator-edited text in step mode.
func (r *stageRunner) parse(stage Stage, raw string) (script.StageOutput, error) {
	out := script.StageOutput{Raw: raw}
	switch stage {
	case StageScout:
		suggestions, err := script.ParseSuggestions(string(stage), raw)
		if err != nil {
			return script.StageOutput{}, err
		}
		out.Suggestions = suggestions

	case StageResearch:
		dossier, err := script.ParseDossier(string(stage), raw)
		if err != nil {
			return script.StageOutput{}, err
		}
		out.Dossier = dossier

	case StageNarrate:
		blocks, err := script.ParseBlocks(string(stage), raw)
		if err != nil {
			return script.StageOutput{}, err
		}
		out.Blocks = r.estimator.Estimate(blocks)
	}
	return out, nil
}
