package blockbuster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediawar/blockbuster/script"
)

func TestStageOrder(t *testing.T) {
	assert.Equal(t, StageDecode, StageScout.next())
	assert.Equal(t, StageResearch, StageDecode.next())
	assert.Equal(t, StageArchitect, StageResearch.next())
	assert.Equal(t, StageNarrate, StageArchitect.next())
	assert.Equal(t, StageCompleted, StageNarrate.next())
}

func TestStageTerminal(t *testing.T) {
	assert.True(t, StageCompleted.Terminal())
	assert.True(t, StageFailed.Terminal())
	for _, s := range pipelineOrder {
		assert.False(t, s.Terminal(), "stage %s must not be terminal", s)
	}
	assert.False(t, StageIdle.Terminal())
}

func TestBuildStageInputChainsPriorOutputs(t *testing.T) {
	st := newPipelineState("run-1", "dead retail", false)
	assert.Contains(t, buildStageInput(st, StageScout), "dead retail")

	st.Outputs[StageScout] = script.StageOutput{Raw: "candidate list here"}
	assert.Contains(t, buildStageInput(st, StageDecode), "candidate list here")

	st.Outputs[StageDecode] = script.StageOutput{Raw: "angle analysis here"}
	assert.Contains(t, buildStageInput(st, StageResearch), "angle analysis here")

	st.Outputs[StageResearch] = script.StageOutput{Raw: "dossier here"}
	assert.Contains(t, buildStageInput(st, StageArchitect), "dossier here")

	st.Outputs[StageArchitect] = script.StageOutput{Raw: "structure here"}
	narrateInput := buildStageInput(st, StageNarrate)
	assert.Contains(t, narrateInput, "dossier here")
	assert.Contains(t, narrateInput, "structure here")
}
