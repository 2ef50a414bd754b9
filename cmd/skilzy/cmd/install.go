package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/skilzy-ai/skilzy/internal/installer"
	"github.com/skilzy-ai/skilzy/internal/registry"
	"github.com/skilzy-ai/skilzy/internal/skillref"
	"github.com/spf13/cobra"
)

var (
	installPath      string
	installOverwrite bool
	installCat       bool
	installInsecure  bool
)

var installCmd = &cobra.Command{
	Use:   "install <author/skill-name[@version]>",
	Short: "Download and install a skill",
	Long: `Download a skill from the registry, unpack it under the project root,
and record it in skilzy.json. Without @version the latest published
version is installed.

Examples:
  skilzy install acme/pdf-pro
  skilzy install acme/pdf-pro@2.0.0
  skilzy install acme/pdf-pro --path vendor/pdf --overwrite
  skilzy install acme/pdf-pro --cat`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPath, "path", "", "install path relative to the project root (default: skills/<author>-<name>)")
	installCmd.Flags().BoolVar(&installOverwrite, "overwrite", false, "replace the destination directory if it exists")
	installCmd.Flags().BoolVar(&installCat, "cat", false, "print the skill's SKILL.md after installation")
	installCmd.Flags().BoolVar(&installInsecure, "insecure", false, "disable TLS certificate verification")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ref, err := skillref.Parse(args[0])
	if err != nil {
		return err
	}

	dir, err := getWorkDir()
	if err != nil {
		return err
	}

	var clientOpts []registry.Option
	if installInsecure {
		clientOpts = append(clientOpts, registry.WithInsecureTLS())
	}
	inst := installer.New(dir, newClient(clientOpts...), newLogger())

	out := cmd.OutOrStdout()
	outcome, err := inst.Install(cmd.Context(), ref, installer.Options{
		TargetPath: installPath,
		Overwrite:  installOverwrite,
	})
	if errors.HasCode(err, errors.CodeDestinationExists) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Use --overwrite to replace it or --path to choose a different location.")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Installed %s v%s\n", outcome.Skill, outcome.Version)
	fmt.Fprintln(out, outcome.Path)

	if installCat {
		printSkillDoc(cmd, outcome.Path)
	}
	return nil
}

// printSkillDoc prints the installed skill's SKILL.md, if the package
// shipped one.
func printSkillDoc(cmd *cobra.Command, installDir string) {
	content, err := os.ReadFile(filepath.Join(installDir, "SKILL.md"))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: SKILL.md not found in the skill package.")
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n--- SKILL.md ---")
	fmt.Fprint(out, string(content))
	fmt.Fprintln(out, "----------------")
}
