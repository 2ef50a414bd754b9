package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/spf13/cobra"
)

var meSkillsOutput string

var meSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List your published skills",
	Args:  cobra.NoArgs,
	RunE:  runMeSkills,
}

func init() {
	meSkillsCmd.Flags().StringVarP(&meSkillsOutput, "output", "o", outputTable, "output format (table, json, yaml)")
	meCmd.AddCommand(meSkillsCmd)
}

func runMeSkills(cmd *cobra.Command, args []string) error {
	skills, err := newClient().MySkills(cmd.Context())
	if errors.HasCode(err, errors.CodeAuthentication) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Please run 'skilzy login' first.")
		return err
	}
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), meSkillsOutput, skills, func(out io.Writer) error {
		if len(skills) == 0 {
			fmt.Fprintln(out, "You have not published any skills yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLATEST\tSTATUS\tPUBLISHED/TOTAL")
		for _, s := range skills {
			version, status := "-", "-"
			if s.LatestVersion != nil {
				version = s.LatestVersion.Version
				status = s.LatestVersion.Status
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n", s.Name, version, status, s.PublishedVersionCount, s.TotalVersions)
		}
		return w.Flush()
	})
}
