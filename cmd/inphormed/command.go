package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "command <text>",
		Short: "Send a free-text layout command to the UI agent",
		Example: `  inphormed command pon verificar claims primero
  inphormed command "oculta crear material"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, strings.Join(args, " "))
		},
	}
}

func runCommand(cmd *cobra.Command, text string) error {
	ctx := cmd.Context()
	deps, err := openLayout(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.store.Load(ctx)
	resp, err := deps.client.SendCommand(ctx, text, deps.store.Get())
	if err != nil {
		return fmt.Errorf("ui agent: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(resp.Notes) == 0 {
		color.New(color.FgYellow).Fprintln(out, "no change: command not understood")
	}
	for _, n := range resp.Notes {
		color.New(color.FgCyan).Fprintf(out, "· %s\n", n)
	}
	if resp.Layout != nil {
		if err := deps.store.Replace(*resp.Layout); err != nil {
			return fmt.Errorf("ui agent returned an unusable layout: %w", err)
		}
	}
	printLayout(out, deps.store.Get())
	return nil
}
