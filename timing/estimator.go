// Package timing converts generated narration text into non-overlapping
// block timecodes. Estimation is pure and deterministic: the same block
// sequence always produces the same timecodes.
package timing

import (
	"fmt"

	"github.com/mediawar/blockbuster/script"
)

const (
	// DefaultCharsPerSecond approximates spoken narration pace measured on
	// the normalized text.
	DefaultCharsPerSecond = 15

	// DefaultMinBlockSeconds is the floor for a single block; no block is
	// ever shorter regardless of text length.
	DefaultMinBlockSeconds = 2
)

// Estimator assigns start/end timecodes to script blocks.
type Estimator struct {
	CharsPerSecond  int
	MinBlockSeconds int
}

// NewEstimator returns an estimator with default pacing.
func NewEstimator() Estimator {
	return Estimator{
		CharsPerSecond:  DefaultCharsPerSecond,
		MinBlockSeconds: DefaultMinBlockSeconds,
	}
}

// Estimate returns a copy of blocks with contiguous timecodes attached:
// the first block starts at 0 and every block starts where the previous
// one ended. The input slice is not mutated.
func (e Estimator) Estimate(blocks []script.Block) []script.Block {
	if len(blocks) == 0 {
		return nil
	}

	out := make([]script.Block, len(blocks))
	total := 0
	for i, b := range blocks {
		duration := e.BlockDuration(b.AudioScript)
		b.StartSec = total
		b.EndSec = total + duration
		b.Timecode = fmt.Sprintf("%s - %s", FormatTimecode(b.StartSec), FormatTimecode(b.EndSec))
		total = b.EndSec
		out[i] = b
	}
	return out
}

// BlockDuration estimates how many seconds it takes to speak text,
// rounding up and never going below the configured minimum.
func (e Estimator) BlockDuration(text string) int {
	cps := e.CharsPerSecond
	if cps <= 0 {
		cps = DefaultCharsPerSecond
	}
	min := e.MinBlockSeconds
	if min <= 0 {
		min = DefaultMinBlockSeconds
	}

	length := len(NormalizeSpoken(text))
	duration := (length + cps - 1) / cps
	if duration < min {
		duration = min
	}
	return duration
}

// TotalDuration returns the end timecode of the last block, in seconds.
func TotalDuration(blocks []script.Block) int {
	if len(blocks) == 0 {
		return 0
	}
	return blocks[len(blocks)-1].EndSec
}

// FormatTimecode renders seconds as zero-padded MM:SS.
func FormatTimecode(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
