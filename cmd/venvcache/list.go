package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached environments",
	Long: `list prints one line per cached environment: the cache key and
whether the environment finished building (good) or was left broken
(bad).`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := newCache(cmd)
	if err != nil {
		return err
	}

	entries, err := c.Entries()
	if err != nil {
		return err
	}

	for _, env := range entries {
		status := "bad"
		if env.Good() {
			status = "good"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", env.Key().Encoded(), status)
	}

	return nil
}
