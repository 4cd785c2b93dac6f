package script

// BlockType classifies one row of the two-column A/V script.
type BlockType string

const (
	BlockIntro      BlockType = "INTRO"
	BlockBody       BlockType = "BODY"
	BlockTransition BlockType = "TRANSITION"
	BlockSales      BlockType = "SALES"
	BlockOutro      BlockType = "OUTRO"
)

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockIntro, BlockBody, BlockTransition, BlockSales, BlockOutro:
		return true
	}
	return false
}

// Block is one timed unit of the generated script. The narration stage produces
// untimed drafts; the timing estimator fills Timecode, StartSec and EndSec
// exactly once, after which the block is not mutated.
type Block struct {
	Timecode    string    `json:"timecode"`
	BlockType   BlockType `json:"blockType"`
	AudioScript string    `json:"audioScript"`
	VisualCue   string    `json:"visualCue"`
	ScreenText  string    `json:"screenText"`
	StartSec    int       `json:"startSec,omitempty"`
	EndSec      int       `json:"endSec,omitempty"`
}

// TopicSuggestion is one candidate topic returned by the scout stage.
type TopicSuggestion struct {
	Title       string `json:"title"`
	Hook        string `json:"hook"`
	ViralFactor string `json:"viralFactor"`
}

// DataPoint is one labelled metric inside a research dossier.
type DataPoint struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dossier is the structured output of the research stage.
type Dossier struct {
	Topic         string      `json:"topic"`
	Claims        []string    `json:"claims"`
	CounterClaims []string    `json:"counterClaims"`
	VisualAnchors []string    `json:"visualAnchors"`
	DataPoints    []DataPoint `json:"dataPoints"`
}

// StageOutput carries one stage's validated result through the pipeline.
// Raw always holds the model text; the typed fields are populated only for
// the stages that produce structured data.
type StageOutput struct {
	Raw         string
	Suggestions []TopicSuggestion
	Dossier     *Dossier
	Blocks      []Block
}

// WordCount returns the number of narration words across blocks.
func WordCount(blocks []Block) int {
	total := 0
	for _, b := range blocks {
		inWord := false
		for _, r := range b.AudioScript {
			if r == ' ' || r == '\t' || r == '\n' {
				inWord = false
				continue
			}
			if !inWord {
				total++
				inWord = true
			}
		}
	}
	return total
}
