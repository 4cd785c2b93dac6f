package blockbuster

import (
	"context"

	"github.com/mediawar/blockbuster/ai"
)

// Service is the external generation collaborator. The pipeline treats it
// as opaque: text in, text (or an ordered fragment stream) out. Both calls
// must honor ctx cancellation.
type Service interface {
	RunStage(ctx context.Context, stageID, prompt string) (string, error)
	StreamStage(ctx context.Context, stageID, prompt string, onFragment func(string) error) error
}

// jsonStages are the stages whose payloads are decoded against a strict
// schema; the provider is asked for JSON output on these.
var jsonStages = map[Stage]bool{
	StageScout:    true,
	StageResearch: true,
	StageNarrate:  true,
}

// ModelService routes each stage to its configured model, falling back to
// Default for stages without an explicit mapping.
type ModelService struct {
	Models  map[string]*ai.Model
	Default *ai.Model
}

var _ Service = (*ModelService)(nil)

func (s *ModelService) modelFor(stageID string) *ai.Model {
	if m, ok := s.Models[stageID]; ok && m != nil {
		return m
	}
	return s.Default
}

// ModelID reports which model serves stageID, for history records.
func (s *ModelService) ModelID(stageID string) string {
	if m := s.modelFor(stageID); m != nil {
		return m.ModelName
	}
	return ""
}

func (s *ModelService) RunStage(ctx context.Context, stageID, prompt string) (string, error) {
	return s.modelFor(stageID).Generate(ctx, prompt, jsonStages[Stage(stageID)])
}

func (s *ModelService) StreamStage(ctx context.Context, stageID, prompt string, onFragment func(string) error) error {
	return s.modelFor(stageID).GenerateStream(ctx, prompt, jsonStages[Stage(stageID)], onFragment)
}
