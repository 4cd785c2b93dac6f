package blockbuster

import "fmt"

// Stage prompts chain each stage's input from the previous stage's
// validated output. The instructions stay minimal: the schema contract is
// what the strict decoders depend on, the editorial methodology lives with
// the operator.

func buildStageInput(st PipelineState, stage Stage) string {
	switch stage {
	case StageScout:
		return fmt.Sprintf(`TOPIC AREA: %s

Suggest four current video topics in this area.
Respond with a JSON array of exactly four objects, each with keys
"title", "hook" and "viralFactor". No other keys.`, st.Topic)

	case StageDecode:
		scout, _ := st.Output(StageScout)
		return fmt.Sprintf(`TOPIC: %s

CANDIDATE TOPICS:
%s

Pick the strongest candidate and decode its retention angle: target
emotion, open loops, and a "you think X, but actually Y" snapback.
Respond in plain text sections.`, st.Topic, scout.Raw)

	case StageResearch:
		decode, _ := st.Output(StageDecode)
		return fmt.Sprintf(`TOPIC: %s

ANGLE ANALYSIS:
%s

Compile a research dossier with verifiable specifics (dates, figures,
named sources). Respond with one JSON object with keys "topic",
"claims", "counterClaims", "visualAnchors" and "dataPoints" (each data
point has "label" and "value"). No other keys.`, st.Topic, decode.Raw)

	case StageArchitect:
		research, _ := st.Output(StageResearch)
		return fmt.Sprintf(`DOSSIER:
%s

Design the video structure: packaging (title, thumbnail concept,
opening hook) and a timecoded structural plan with intensity levels.
Respond in plain text.`, research.Raw)

	case StageNarrate:
		research, _ := st.Output(StageResearch)
		architect, _ := st.Output(StageArchitect)
		return fmt.Sprintf(`DOSSIER:
%s

STRUCTURE:
%s

Write the full two-column A/V script. Respond with a JSON array of
blocks, each with keys "timecode", "blockType", "audioScript",
"visualCue" and "screenText". blockType is one of INTRO, BODY,
TRANSITION, SALES, OUTRO. No other keys.`, research.Raw, architect.Raw)
	}
	return st.Topic
}
