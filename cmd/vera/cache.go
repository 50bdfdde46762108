package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vera/internal/vtree"
)

var cacheDir string

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDir, "dir", "", "cache directory (default: per-user cache)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the verification progress cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached progress tree statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := vtree.OpenDiskCache(cacheDir)
		if err != nil {
			return err
		}
		entries, bytes, err := cache.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d trees, %d bytes\n", cache.Dir(), entries, bytes)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop every cached progress tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := vtree.OpenDiskCache(cacheDir)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return nil
	},
}
