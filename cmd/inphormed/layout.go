package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"inphormed/internal/layout"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset the dashboard layout",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Load the layout the dashboard would start with and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openLayout(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			res := deps.store.Load(cmd.Context())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res.Layout)
			}
			printLoadResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default layout in the cache and on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openLayout(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			if err := deps.store.Replace(layout.Default()); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "layout reset to default")
			printLayout(cmd.OutOrStdout(), deps.store.Get())
			return nil
		},
	}

	forget := &cobra.Command{
		Use:   "forget",
		Short: "Drop the locally cached layout so the next start follows the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openLayout(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			if err := deps.cache.Clear(); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "local layout cache cleared")
			return nil
		},
	}

	cmd.AddCommand(show, reset, forget)
	return cmd
}

func printLoadResult(w io.Writer, res layout.LoadResult) {
	gray := color.New(color.FgHiBlack)
	gray.Fprintf(w, "remote: %s  cache: %s", res.Remote.Outcome, res.Cache.Outcome)
	if !res.Applied {
		gray.Fprint(w, "  (default layout)")
	}
	fmt.Fprintln(w)
	printLayout(w, res.Layout)
}

func printLayout(w io.Writer, l layout.Layout) {
	bold := color.New(color.Bold)
	hidden := color.New(color.FgYellow)
	for i, id := range l.OrderedIDs() {
		wdg, _ := l.Lookup(id)
		fmt.Fprintf(w, "%d. ", i+1)
		bold.Fprintf(w, "%-9s", id)
		fmt.Fprintf(w, " span=%d", wdg.Span)
		if !wdg.Visible {
			hidden.Fprint(w, " hidden")
		}
		fmt.Fprintln(w)
	}
}
