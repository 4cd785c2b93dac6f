// Package export renders a completed script into its delivery formats: a
// tabular document for review, a delimiter-escaped CSV for spreadsheet
// workflows, and a JSON dump for downstream tooling. Rendering only — no
// pipeline logic lives here.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mediawar/blockbuster/script"
	"github.com/mediawar/blockbuster/timing"
)

var csvHeader = []string{"timecode", "type", "visual", "narration", "screen_text"}

// RenderTable renders blocks as a bordered table document.
func RenderTable(blocks []script.Block) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"TIMECODE", "TYPE", "VISUAL", "NARRATION", "SCREEN TEXT"})

	for _, b := range blocks {
		tw.AppendRow(table.Row{b.Timecode, string(b.BlockType), b.VisualCue, b.AudioScript, b.ScreenText})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, WidthMax: 40},
		{Number: 4, WidthMax: 60},
		{Number: 5, WidthMax: 30},
	})
	return tw.Render()
}

// WriteTable writes the tabular document to w.
func WriteTable(w io.Writer, blocks []script.Block) error {
	_, err := io.WriteString(w, RenderTable(blocks)+"\n")
	return err
}

// WriteCSV writes blocks as CSV. encoding/csv quotes embedded delimiters,
// quotes and newlines, so the field set survives a round-trip through
// ReadCSV.
func WriteCSV(w io.Writer, blocks []script.Block) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range blocks {
		record := []string{b.Timecode, string(b.BlockType), b.VisualCue, b.AudioScript, b.ScreenText}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV export back into blocks.
func ReadCSV(r io.Reader) ([]script.Block, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv export is empty")
	}

	blocks := make([]script.Block, 0, len(records)-1)
	for _, rec := range records[1:] {
		blocks = append(blocks, script.Block{
			Timecode:    rec[0],
			BlockType:   script.BlockType(rec[1]),
			VisualCue:   rec[2],
			AudioScript: rec[3],
			ScreenText:  rec[4],
		})
	}
	return blocks, nil
}

type jsonExport struct {
	Topic            string         `json:"topic"`
	ModelID          string         `json:"model_id,omitempty"`
	ExportedAt       time.Time      `json:"exported_at"`
	TotalDurationSec int            `json:"total_duration_sec"`
	Blocks           []script.Block `json:"blocks"`
}

// WriteJSON writes the full script with its run metadata.
func WriteJSON(w io.Writer, topic, modelID string, blocks []script.Block) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonExport{
		Topic:            topic,
		ModelID:          modelID,
		ExportedAt:       time.Now().UTC(),
		TotalDurationSec: timing.TotalDuration(blocks),
		Blocks:           blocks,
	})
}
