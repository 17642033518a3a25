package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove broken environments",
	Long: `prune scans the cache directory and removes every environment whose
build never finished. Good environments are left alone.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	c, err := newCache(cmd)
	if err != nil {
		return err
	}

	pruned, err := c.Prune(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pruned %d broken environments\n", pruned)
	return nil
}
