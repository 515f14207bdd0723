package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halbzeit-ai/review-platform/internal/command"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "status <command-id>",
		Short: "Show the worker's status for a dispatched command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, err := ctx.ensureDispatcher()
			if err != nil {
				return err
			}

			status, err := dispatcher.Status(args[0])
			if errors.Is(err, command.ErrStatusPending) {
				fmt.Fprintf(cmd.OutOrStdout(), "Command %s is still pending\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status.Success {
				fmt.Fprintf(out, "Command %s succeeded at %s\n", status.ID, status.CompletedAt.Local().Format("2006-01-02 15:04:05"))
				if len(status.Result) > 0 {
					fmt.Fprintln(out, string(status.Result))
				}
			} else {
				fmt.Fprintf(out, "Command %s failed at %s: %s\n", status.ID, status.CompletedAt.Local().Format("2006-01-02 15:04:05"), status.Error)
			}

			if remove {
				if err := dispatcher.RemoveStatus(status.ID); err != nil {
					return fmt.Errorf("remove status file: %w", err)
				}
				fmt.Fprintln(out, "Status file removed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "rm", false, "Delete the status file after printing it")
	return cmd
}
