package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	blockbuster "github.com/mediawar/blockbuster"
	"github.com/mediawar/blockbuster/ai"
	"github.com/mediawar/blockbuster/config"
	"github.com/mediawar/blockbuster/event"
	"github.com/mediawar/blockbuster/export"
	"github.com/mediawar/blockbuster/history"
	"github.com/mediawar/blockbuster/script"
	"github.com/mediawar/blockbuster/timing"
)

func newRunCommand(configPath *string) *cobra.Command {
	var (
		topic  string
		step   bool
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("--topic is required")
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key: set GEMINI_API_KEY or api_key in the config file")
			}

			logger := newLogger(cfg.LogLevel)

			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			pipeline := &blockbuster.Pipeline{
				Service:        newService(cfg),
				History:        store,
				Estimator:      timing.Estimator{CharsPerSecond: cfg.CharsPerSecond, MinBlockSeconds: cfg.MinBlockSeconds},
				MaxRetries:     cfg.MaxRetries,
				RetryBaseDelay: cfg.RetryBaseDelay(),
				StepMode:       step,
				Logger:         logger,
			}

			run := pipeline.Start(topic)
			consumeEvents(cmd, run)

			state, err := run.Wait()
			if err != nil {
				return err
			}

			if outDir != "" {
				if out, ok := state.Output(blockbuster.StageNarrate); ok {
					if err := writeExports(outDir, topic, cfg.ModelFor(string(blockbuster.StageNarrate)), out); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "exports written to %s\n", outDir)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "topic area to generate a script for")
	cmd.Flags().BoolVar(&step, "step", false, "pause for approval between stages")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for table/CSV/JSON exports")
	return cmd
}

func newService(cfg config.Config) *blockbuster.ModelService {
	stages := []string{"scout", "decode", "research", "architect", "narrate"}
	models := make(map[string]*ai.Model, len(stages))
	for _, stage := range stages {
		models[stage] = ai.NewGeminiModel(cfg.ModelFor(stage), cfg.APIKey)
	}
	return &blockbuster.ModelService{
		Models:  models,
		Default: ai.NewGeminiModel(cfg.DefaultModel, cfg.APIKey),
	}
}

func openStore(cfg config.Config) (history.Store, func(), error) {
	if cfg.HistoryPath == "" {
		return history.NopStore{}, func() {}, nil
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open history store: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

// consumeEvents prints the run's ordered log and, in step mode, prompts the
// operator at every approval gate.
func consumeEvents(cmd *cobra.Command, run *blockbuster.Run) {
	out := cmd.OutOrStdout()
	stdin := bufio.NewReader(os.Stdin)

	for evt := range run.Events() {
		switch e := evt.(type) {
		case *event.LogEvent:
			fmt.Fprintf(out, "  %s  %s\n", e.Time.Format("15:04:05"), e.Message)
		case *event.ApprovalEvent:
			fmt.Fprintf(out, "\n--- %s output ---\n%s\n---\n", strings.ToUpper(e.Stage), e.Raw)
			fmt.Fprint(out, "approve and continue? [Y/n]: ")
			line, _ := stdin.ReadString('\n')
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "n") {
				run.Cancel()
			} else {
				run.Approve("")
			}
		case *event.ErrorEvent:
			fmt.Fprintf(out, "  pipeline failed: %v\n", e.Err)
		}
	}
}

func writeExports(dir, topic, modelID string, out script.StageOutput) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	table, err := os.Create(filepath.Join(dir, "script-table.txt"))
	if err != nil {
		return err
	}
	defer table.Close()
	if err := export.WriteTable(table, out.Blocks); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(dir, "script.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := export.WriteCSV(csvFile, out.Blocks); err != nil {
		return err
	}

	jsonFile, err := os.Create(filepath.Join(dir, "script.json"))
	if err != nil {
		return err
	}
	defer jsonFile.Close()
	return export.WriteJSON(jsonFile, topic, modelID, out.Blocks)
}
