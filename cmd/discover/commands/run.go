package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cametumbling/discovery-pipeline/internal/config"
	"github.com/cametumbling/discovery-pipeline/internal/pipeline"
)

var runFlags struct {
	config    string
	outputDir string
	runID     string
	logLevel  string
	jsonLogs  bool
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.config, "config", "c", "discover.json5", "Configuration file (JSON5); <name>.local.<ext> is merged over it.")
	f.StringVarP(&runFlags.outputDir, "output-dir", "o", "", "Override output_dir.")
	f.StringVar(&runFlags.runID, "run-id", "", "Override the generated run id.")
	f.StringVar(&runFlags.logLevel, "log-level", "", "Override log_level (debug, info, warn, error).")
	f.BoolVar(&runFlags.jsonLogs, "json-logs", false, "Emit JSON logs instead of human-readable ones.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--config discover.json5] [--output-dir <dir>]",
	Short: "Runs every enabled source and writes the ranked CSV, JSON and text report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		override := func(c *config.Config) {
			if flags.Changed("output-dir") {
				c.OutputDir = runFlags.outputDir
			}
			if flags.Changed("run-id") {
				c.RunID = runFlags.runID
			}
			if flags.Changed("log-level") {
				c.LogLevel = runFlags.logLevel
			}
			if flags.Changed("json-logs") {
				c.JSONLogs = runFlags.jsonLogs
			}
		}

		cfg, err := config.Load(runFlags.config, override)
		// The default config file is optional; flags alone can drive a run.
		if errors.Is(err, os.ErrNotExist) && !flags.Changed("config") {
			cfg, err = config.Finalize(config.Config{}, override)
		}
		if err != nil {
			return fmt.Errorf("loading config %s: %w", runFlags.config, err)
		}

		logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.JSONLogs)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		p, err := pipeline.New(cfg, pipeline.Options{Logger: logger})
		if err != nil {
			return err
		}
		summary, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Discovery complete: %d URLs\n", summary.TotalURLs)
		printSummary(out, summary)
		return nil
	},
}

func printSummary(w io.Writer, s *pipeline.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Item", "Value"})

	t.AppendRows([]table.Row{
		{"Run ID", s.RunID},
		{"Total URLs", s.TotalURLs},
		{"Duplicates removed", s.Duplicates},
		{"Invalid skipped", s.Invalid},
		{"Filtered", s.Filtered},
		{"Quality score", fmt.Sprintf("%.2f", s.Analysis.Quality.QualityScore)},
	})
	t.AppendSeparator()

	names := make([]string, 0, len(s.PerSource))
	for name := range s.PerSource {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		value := fmt.Sprintf("%d records", s.PerSource[name])
		if msg, failed := s.SourceErrors[name]; failed {
			value = "failed: " + msg
		}
		t.AppendRow(table.Row{"source " + name, value})
	}
	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"CSV", s.Files.CSV},
		{"JSON", s.Files.JSON},
		{"Report", s.Files.Report},
		{"Manifest", s.Files.Manifest},
	})
	if s.Files.Docx != "" {
		t.AppendRow(table.Row{"DOCX", s.Files.Docx})
	}
	t.Render()
}
