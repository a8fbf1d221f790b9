package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwfc/pkg/cache"
)

// newCacheCmd creates the cache management command.
// It operates on the file backend only; remote backends (redis, mongo)
// manage their own expiry.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the extraction cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached extraction results",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			printDetail("Directory: %s", c.Dir())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "cache directory (default platform cache dir)")
	return cmd
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			fmt.Println(c.Dir())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "cache directory (default platform cache dir)")
	return cmd
}
