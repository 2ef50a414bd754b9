package cmd

import (
	"fmt"

	"github.com/skilzy-ai/skilzy/internal/cli"
	"github.com/skilzy-ai/skilzy/internal/config"
	"github.com/spf13/cobra"
)

var loginAPIKey string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Skilzy Registry",
	Long: `Save your Skilzy API key to the user configuration file.

Without --api-key the key is read from a prompt. The saved key is used
by publish and the 'me' commands; the SKILZY_API_KEY environment
variable takes precedence over the saved key.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "your Skilzy API key (prompted for if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	key := loginAPIKey
	if key == "" {
		var err error
		key, err = cli.ReadLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Please enter your Skilzy API key")
		if err != nil {
			return err
		}
	}

	store := config.DefaultStore()
	if err := store.SaveAPIKey(key); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", store.Path())
	return nil
}
