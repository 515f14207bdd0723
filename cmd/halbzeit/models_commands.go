package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/models"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage models on the worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	modelsCmd.AddCommand(newModelsListCommand(ctx))
	modelsCmd.AddCommand(newModelsPullCommand(ctx))
	modelsCmd.AddCommand(newModelsRemoveCommand(ctx))
	modelsCmd.AddCommand(newModelsSetActiveCommand(ctx))
	return modelsCmd
}

func newModelsListCommand(ctx *commandContext) *cobra.Command {
	var wait int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models installed on the worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := dispatchAndWait(cmd, ctx, command.TypeListModels, nil, wait)
			if err != nil || status == nil {
				return err
			}

			var result command.ModelListResult
			if err := json.Unmarshal(status.Result, &result); err != nil {
				return fmt.Errorf("decode model list: %w", err)
			}

			rows := make([][]string, 0, len(result.Models))
			for _, model := range result.Models {
				rows = append(rows, []string{
					model.Name,
					humanize.IBytes(uint64(model.Size)),
					model.ModifiedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Size", "Modified"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&wait, "wait", 60, "Seconds to wait for the worker's answer (0 = dispatch only)")
	return cmd
}

func newModelsPullCommand(ctx *commandContext) *cobra.Command {
	var wait int

	cmd := &cobra.Command{
		Use:   "pull <model>",
		Short: "Download a model onto the worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]string{command.ParamModel: args[0]}
			status, err := dispatchAndWait(cmd, ctx, command.TypePullModel, params, wait)
			if err != nil || status == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model %s pulled\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&wait, "wait", 0, "Seconds to wait for the worker's answer (0 = dispatch only)")
	return cmd
}

func newModelsRemoveCommand(ctx *commandContext) *cobra.Command {
	var wait int

	cmd := &cobra.Command{
		Use:   "rm <model>",
		Short: "Remove a model from the worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]string{command.ParamModel: args[0]}
			status, err := dispatchAndWait(cmd, ctx, command.TypeDeleteModel, params, wait)
			if err != nil || status == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model %s removed\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&wait, "wait", 60, "Seconds to wait for the worker's answer (0 = dispatch only)")
	return cmd
}

func newModelsSetActiveCommand(ctx *commandContext) *cobra.Command {
	var wait int

	cmd := &cobra.Command{
		Use:   "set-active <capability> <model>",
		Short: "Bind the active model for a capability class",
		Long: "Bind the active model for a capability class.\n\n" +
			"Capabilities: vision, report, scoring, science.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			capability, ok := models.ParseCapability(args[0])
			if !ok {
				return fmt.Errorf("unknown capability %q (expected one of vision, report, scoring, science)", args[0])
			}
			params := map[string]string{
				command.ParamCapability: string(capability),
				command.ParamModel:      args[1],
			}
			status, err := dispatchAndWait(cmd, ctx, command.TypeSetActiveModel, params, wait)
			if err != nil || status == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now uses %s\n", capabilityLabel(capability), args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&wait, "wait", 60, "Seconds to wait for the worker's answer (0 = dispatch only)")
	return cmd
}
