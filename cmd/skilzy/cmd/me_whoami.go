package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var meWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Validate the configured API key",
	Long: `Check the configured API key against the registry and show its prefix.

The key is resolved from the SKILZY_API_KEY environment variable first,
then from the credentials file written by 'skilzy login'.`,
	Args: cobra.NoArgs,
	RunE: runMeWhoami,
}

func init() {
	meCmd.AddCommand(meWhoamiCmd)
}

func runMeWhoami(cmd *cobra.Command, args []string) error {
	client := newClient()
	if !client.Authenticated() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Please run 'skilzy login' first.")
		return fmt.Errorf("no API key configured")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded API key prefix: %s\n", client.KeyPrefix())
	fmt.Fprintln(out, "Validating key with the registry...")

	validation, err := client.ValidateKey(cmd.Context())
	if err != nil {
		return err
	}
	if !validation.Valid {
		fmt.Fprintln(cmd.ErrOrStderr(), "Verify this key on the registry or re-run 'skilzy login'.")
		return fmt.Errorf("the registry rejected this API key")
	}

	fmt.Fprintln(out, "Validation successful: the registry accepted this key.")
	return nil
}
