package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const previewLen = 160

// ParseError reports a stage payload that did not match its expected
// structure. The pipeline never repairs or coerces malformed output.
type ParseError struct {
	Stage   string
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stage %s returned malformed output: %v (payload: %q)", e.Stage, e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseError(stage, raw string, err error) *ParseError {
	return &ParseError{Stage: stage, Preview: preview(raw), Err: err}
}

func preview(raw string) string {
	raw = strings.Join(strings.Fields(raw), " ")
	if len(raw) > previewLen {
		return raw[:previewLen] + "..."
	}
	return raw
}

// ParseBlocks decodes a narration payload into untimed script blocks.
// Unknown fields and unknown block types are rejected.
func ParseBlocks(stage, raw string) ([]Block, error) {
	var blocks []Block
	if err := strictDecode(raw, &blocks); err != nil {
		return nil, parseError(stage, raw, err)
	}
	if len(blocks) == 0 {
		return nil, parseError(stage, raw, fmt.Errorf("no blocks in payload"))
	}
	for i, b := range blocks {
		if strings.TrimSpace(b.AudioScript) == "" {
			return nil, parseError(stage, raw, fmt.Errorf("block %d has empty audioScript", i))
		}
		if !b.BlockType.Valid() {
			return nil, parseError(stage, raw, fmt.Errorf("block %d has unknown blockType %q", i, b.BlockType))
		}
	}
	return blocks, nil
}

// ParseSuggestions decodes a scout payload into topic suggestions.
func ParseSuggestions(stage, raw string) ([]TopicSuggestion, error) {
	var suggestions []TopicSuggestion
	if err := strictDecode(raw, &suggestions); err != nil {
		return nil, parseError(stage, raw, err)
	}
	if len(suggestions) == 0 {
		return nil, parseError(stage, raw, fmt.Errorf("no topic suggestions in payload"))
	}
	for i, s := range suggestions {
		if strings.TrimSpace(s.Title) == "" {
			return nil, parseError(stage, raw, fmt.Errorf("suggestion %d has empty title", i))
		}
	}
	return suggestions, nil
}

// ParseDossier decodes a research payload into a dossier.
func ParseDossier(stage, raw string) (*Dossier, error) {
	var dossier Dossier
	if err := strictDecode(raw, &dossier); err != nil {
		return nil, parseError(stage, raw, err)
	}
	if len(dossier.Claims) == 0 {
		return nil, parseError(stage, raw, fmt.Errorf("dossier has no claims"))
	}
	return &dossier, nil
}

// strictDecode unmarshals JSON with unknown fields disallowed. Markdown code
// fences around the payload are tolerated because some providers emit them
// even in JSON mode.
func strictDecode(raw string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(stripFence(raw))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
