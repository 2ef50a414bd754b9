package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/skilzy-ai/skilzy/internal/config"
	"github.com/skilzy-ai/skilzy/internal/logging"
	"github.com/skilzy-ai/skilzy/internal/registry"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"

	// Global flags
	verbose     bool
	workDir     string
	registryURL string
)

var rootCmd = &cobra.Command{
	Use:   "skilzy",
	Short: "Discover, install, and manage AI skills from the Skilzy Registry",
	Long: `Skilzy is a package manager for AI skills.

Skills are versioned bundles of instructions and resources published to
the Skilzy Registry. Installed skills are tracked in a skilzy.json file
at the project root, which 'skilzy sync' uses to reproduce the same set
of skills on another machine.

Common workflow:
  skilzy init                      create skilzy.json
  skilzy search pdf                find skills in the registry
  skilzy install acme/pdf-pro      install and track a skill
  skilzy sync                      install everything skilzy.json lists`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "C", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&registryURL, "registry", "", "registry base URL (default: "+registry.DefaultBaseURL+")")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("skilzy {{.Version}}\n")
}

// newLogger builds the logger for one command invocation.
func newLogger() *slog.Logger {
	if verbose {
		return logging.NewWithLevel(slog.LevelDebug)
	}
	return logging.NewDefault()
}

// getWorkDir returns the effective project root.
func getWorkDir() (string, error) {
	if workDir != "" {
		return workDir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// newClient builds a registry client honoring the --registry flag and any
// API key resolvable from the environment or the credentials file.
func newClient(extra ...registry.Option) *registry.Client {
	opts := []registry.Option{
		registry.WithUserAgent("skilzy/" + Version),
	}
	if registryURL != "" {
		opts = append(opts, registry.WithBaseURL(registryURL))
	}
	if key := config.DefaultStore().ResolveAPIKey(""); key != "" {
		opts = append(opts, registry.WithAPIKey(key))
	}
	return registry.New(append(opts, extra...)...)
}
