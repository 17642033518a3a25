package main

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove KEY...",
	Short: "Remove cached environments by key",
	Long: `remove deletes the environments named by the given cache keys. Keys
must be exactly as printed by list or key; anything else in the cache
directory is refused.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	c, err := newCache(cmd)
	if err != nil {
		return err
	}

	for _, key := range args {
		if err := c.Remove(key); err != nil {
			return err
		}
	}

	return nil
}
