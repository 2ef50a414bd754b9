package cmd

import (
	"fmt"

	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <package.skill>",
	Short: "Publish a skill package to the registry",
	Long: `Upload a packaged .skill file to the Skilzy Registry.

The package must contain a skill.json manifest at its root. Publishing
requires authentication; run 'skilzy login' first.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	result, err := newClient().Publish(cmd.Context(), args[0])
	if errors.HasCode(err, errors.CodeAuthentication) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Please run 'skilzy login' first.")
		return err
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Publish request successful!")
	fmt.Fprintf(out, "  Skill:   %s\n", result.Skill)
	fmt.Fprintf(out, "  Version: %s\n", result.Version)
	fmt.Fprintf(out, "  Status:  %s\n", result.Status)
	return nil
}
