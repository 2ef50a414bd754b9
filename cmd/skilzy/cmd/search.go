package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/skilzy-ai/skilzy/internal/registry"
	"github.com/spf13/cobra"
)

var (
	searchAuthor   string
	searchKeywords string
	searchSort     string
	searchPage     int
	searchLimit    int
	searchOutput   string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for skills in the registry",
	Long: `Search the Skilzy Registry for skills matching a query.

Examples:
  skilzy search pdf
  skilzy search pdf --author acme
  skilzy search converter --keywords pdf,latex --limit 25`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchAuthor, "author", "", "filter by author's username")
	searchCmd.Flags().StringVar(&searchKeywords, "keywords", "", "comma-separated keywords to filter by")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort order (default: relevance)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "results per page")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", outputTable, "output format (table, json, yaml)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts := registry.SearchOptions{
		Query:  args[0],
		Author: searchAuthor,
		SortBy: searchSort,
		Page:   searchPage,
		Limit:  searchLimit,
	}
	if searchKeywords != "" {
		opts.Keywords = strings.Split(searchKeywords, ",")
	}

	result, err := newClient().Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), searchOutput, result, func(out io.Writer) error {
		if len(result.Data) == 0 {
			fmt.Fprintln(out, "No skills found matching your criteria.")
			return nil
		}

		fmt.Fprintf(out, "Found %d skill(s):\n", result.Total)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tVERSION\tDESCRIPTION")
		for _, s := range result.Data {
			fmt.Fprintf(w, "%s/%s\t%s\t%s\n", s.Author, s.Name, s.LatestVersion, s.Description)
		}
		return w.Flush()
	})
}
