package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halbzeit-ai/review-platform/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(ctx), newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if ctx.configFlag != nil && *ctx.configFlag != "" {
				path = *ctx.configFlag
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", path)
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", ctx.configPath)
			rows := [][]string{
				{"paths.shared_dir", cfg.Paths.SharedDir},
				{"paths.commands_dir", cfg.Paths.CommandsDir},
				{"paths.status_dir", cfg.Paths.StatusDir},
				{"paths.progress_dir", cfg.Paths.ProgressDir},
				{"paths.results_dir", cfg.Paths.ResultsDir},
				{"paths.staging_dir", cfg.Paths.StagingDir},
				{"paths.data_dir", cfg.Paths.DataDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"ollama.base_url", cfg.Ollama.BaseURL},
				{"ollama.generation_timeout", fmt.Sprintf("%ds", cfg.Ollama.GenerationTimeout)},
				{"ollama.pull_timeout", fmt.Sprintf("%ds", cfg.Ollama.PullTimeout)},
				{"worker.poll_interval", fmt.Sprintf("%ds", cfg.Worker.PollInterval)},
				{"render.pdftoppm_binary", cfg.Render.PdftoppmBinary},
				{"render.dpi", fmt.Sprintf("%d", cfg.Render.DPI)},
				{"render.render_timeout", fmt.Sprintf("%ds", cfg.Render.RenderTimeout)},
				{"notifications.ntfy_topic", cfg.Notifications.NtfyTopic},
				{"logging.level", cfg.Logging.Level},
				{"logging.format", cfg.Logging.Format},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
