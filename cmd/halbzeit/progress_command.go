package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/progress"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "progress <job-id>",
		Short: "Show analysis progress for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			jobID := args[0]

			if !watch {
				snapshot, err := progress.Read(cfg.Paths.ProgressDir, jobID)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("no progress recorded for job %s", jobID)
					}
					return err
				}
				printSnapshot(cmd, snapshot)
				return nil
			}

			ticker := time.NewTicker(statusPollInterval)
			defer ticker.Stop()
			var last progress.Snapshot
			for {
				snapshot, err := progress.Read(cfg.Paths.ProgressDir, jobID)
				if err == nil && snapshot != last {
					printSnapshot(cmd, snapshot)
					last = snapshot
				} else if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				if analysis.Stage(snapshot.Stage).IsTerminal() {
					return nil
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling until the job reaches a terminal stage")
	return cmd
}

func printSnapshot(cmd *cobra.Command, snapshot progress.Snapshot) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-22s %3.0f%%  %s\n",
		analysis.Stage(snapshot.Stage).Label(), snapshot.Percentage, snapshot.Message)
}
