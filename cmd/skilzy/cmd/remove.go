package cmd

import (
	"fmt"

	"github.com/skilzy-ai/skilzy/internal/cli"
	"github.com/skilzy-ai/skilzy/internal/installer"
	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <skill-name>",
	Short: "Remove an installed skill",
	Long: `Delete an installed skill's directory and drop its skilzy.json entry.

The name can be the full author/name key or a bare name when only one
tracked skill carries it. Removal asks for confirmation unless --force
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "remove without a confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	dir, err := getWorkDir()
	if err != nil {
		return err
	}
	inst := installer.New(dir, newClient(), newLogger())

	entry, err := inst.ResolveName(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !removeForce {
		prompt := fmt.Sprintf("Permanently remove skill %q?", entry.Key())
		ok, err := cli.Confirm(cmd.InOrStdin(), out, prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Removal cancelled.")
			return nil
		}
	}

	msg, err := inst.Remove(entry.Key())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}
