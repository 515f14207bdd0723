package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/models"
)

var titleCaser = cases.Title(language.English)

func capabilityLabel(capability models.Capability) string {
	return titleCaser.String(string(capability))
}

func topicLabel(topic string) string {
	return titleCaser.String(strings.ReplaceAll(topic, "-", " "))
}

// dispatchAndWait publishes a command and, when waitSeconds > 0, polls for
// the worker's status. With waitSeconds == 0 it prints the command id and
// returns a nil status.
func dispatchAndWait(cmd *cobra.Command, ctx *commandContext, cmdType command.Type, params map[string]string, waitSeconds int) (*command.Status, error) {
	dispatcher, err := ctx.ensureDispatcher()
	if err != nil {
		return nil, err
	}

	dispatched, err := dispatcher.Dispatch(cmdType, params)
	if err != nil {
		return nil, err
	}

	if waitSeconds <= 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Command %s dispatched; check it later with: halbzeit status %s\n", dispatched.ID, dispatched.ID)
		return nil, nil
	}

	waitCtx, cancel := context.WithTimeout(cmd.Context(), time.Duration(waitSeconds)*time.Second)
	defer cancel()

	status, err := dispatcher.WaitForStatus(waitCtx, dispatched.ID, statusPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("worker did not answer within %ds; check later with: halbzeit status %s", waitSeconds, dispatched.ID)
		}
		return nil, err
	}
	if !status.Success {
		return nil, fmt.Errorf("worker reported failure: %s", status.Error)
	}
	return status, nil
}
