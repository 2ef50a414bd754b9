package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/skilzy-ai/skilzy/internal/manifest"
	"github.com/spf13/cobra"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills tracked in skilzy.json",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", outputTable, "output format (table, json, yaml)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	dir, err := getWorkDir()
	if err != nil {
		return err
	}

	store := manifest.NewStore(dir)
	m, err := store.Load()
	if err != nil {
		return err
	}

	entries := make([]manifest.Entry, 0, len(m.Skills))
	for _, key := range m.Keys() {
		entries = append(entries, m.Skills[key])
	}

	return writeOutput(cmd.OutOrStdout(), listOutput, entries, func(out io.Writer) error {
		if len(entries) == 0 {
			fmt.Fprintf(out, "No skills are tracked in %q.\n", manifest.TrackingFileName)
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tVERSION\tPATH")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key(), e.Version, e.Path)
		}
		return w.Flush()
	})
}
