package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/venvcache"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Print the cache key for requirements files",
	Long: `key parses the given requirements files, merges them the same way a
build would, and prints the resulting cache key without building
anything. Useful for checking whether two requirement sets share an
environment.`,
	Args: cobra.NoArgs,
	RunE: runKey,
}

func init() {
	addRequirementsFlag(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	reqs, err := parseRequirements()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), venvcache.Key(reqs).Encoded())
	return nil
}
