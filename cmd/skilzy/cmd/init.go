package cmd

import (
	"fmt"

	"github.com/skilzy-ai/skilzy/internal/manifest"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a skilzy.json tracking file",
	Long: `Create an empty skilzy.json tracking file at the project root.

The tracking file records every installed skill with its pinned version
and install path. Commit it to version control so 'skilzy sync' can
reproduce the same skills elsewhere.

Initialization never touches an existing skilzy.json, even a corrupt
one. Inspect or delete the file manually before re-initializing.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := getWorkDir()
	if err != nil {
		return err
	}

	store := manifest.NewStore(dir)
	if err := store.Init(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", store.Path())
	return nil
}
