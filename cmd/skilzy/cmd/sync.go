package cmd

import (
	"fmt"

	"github.com/skilzy-ai/skilzy/internal/installer"
	"github.com/skilzy-ai/skilzy/internal/registry"
	"github.com/spf13/cobra"
)

var (
	syncForce    bool
	syncInsecure bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Install every skill listed in skilzy.json",
	Long: `Bring the project's skills directory into agreement with skilzy.json.

Each tracked skill is installed at its pinned version. Skills already
present on disk are skipped unless --force is given, and one skill's
failure does not stop the rest. Sync exits non-zero when any skill
failed.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "reinstall skills even if they already exist")
	syncCmd.Flags().BoolVar(&syncInsecure, "insecure", false, "disable TLS certificate verification")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	dir, err := getWorkDir()
	if err != nil {
		return err
	}

	var clientOpts []registry.Option
	if syncInsecure {
		clientOpts = append(clientOpts, registry.WithInsecureTLS())
	}
	inst := installer.New(dir, newClient(clientOpts...), newLogger())

	summary, err := inst.Sync(cmd.Context(), installer.SyncOptions{Force: syncForce})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, o := range summary.Outcomes {
		switch o.Status {
		case installer.StatusSkipped:
			fmt.Fprintf(out, "  - %s v%s already installed\n", o.Skill, o.Version)
		case installer.StatusFailed:
			fmt.Fprintf(out, "  x %s: %v\n", o.Skill, o.Err)
		default:
			fmt.Fprintf(out, "  + %s v%s installed\n", o.Skill, o.Version)
		}
	}

	fmt.Fprintln(out, "Sync summary:")
	fmt.Fprintf(out, "  installed: %d\n", summary.SuccessCount)
	fmt.Fprintf(out, "  skipped:   %d\n", summary.SkipCount)
	if summary.ErrorCount > 0 {
		fmt.Fprintf(out, "  errors:    %d\n", summary.ErrorCount)
		return fmt.Errorf("%d skill(s) failed to sync", summary.ErrorCount)
	}
	return nil
}
