package cmd

import (
	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Manage your Skilzy account and published skills",
}

func init() {
	rootCmd.AddCommand(meCmd)
}
