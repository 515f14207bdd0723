package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/command"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jobID string
	var wait int

	cmd := &cobra.Command{
		Use:   "analyze <deck.pdf>",
		Short: "Dispatch a deck analysis job to the worker",
		Long: "Dispatch a deck analysis job to the worker.\n\n" +
			"The path must be reachable from the worker, i.e. on the shared volume. " +
			"Progress can be followed with `halbzeit progress <job-id>` while the job runs.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve deck path: %w", err)
			}

			params := map[string]string{command.ParamFilePath: deckPath}
			if strings.TrimSpace(jobID) != "" {
				params[command.ParamJobID] = strings.TrimSpace(jobID)
			}

			status, err := dispatchAndWait(cmd, ctx, command.TypeAnalyze, params, wait)
			if err != nil || status == nil {
				return err
			}

			var result analysis.Result
			if err := json.Unmarshal(status.Result, &result); err != nil {
				return fmt.Errorf("decode analysis result: %w", err)
			}
			printResult(cmd, &result)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "Deck identifier to key progress and results by (defaults to the command id)")
	cmd.Flags().IntVar(&wait, "wait", 0, "Seconds to wait for the full analysis (0 = dispatch only)")
	return cmd
}

func printResult(cmd *cobra.Command, result *analysis.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Company offering: %s\n\n", result.CompanyOffering)

	rows := make([][]string, 0, len(analysis.Topics()))
	for _, topic := range analysis.Topics() {
		rows = append(rows, []string{
			topicLabel(topic),
			strconv.Itoa(result.ReportScores[topic]),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Topic", "Score (0-7)"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))

	fmt.Fprintf(out, "\nPages analyzed: %d in %.1fs (vision: %s, report: %s)\n",
		result.ProcessingMetadata.TotalPagesAnalyzed,
		result.ProcessingMetadata.ProcessingTime,
		result.ProcessingMetadata.VisionModel,
		result.ProcessingMetadata.ReportModel,
	)
}
