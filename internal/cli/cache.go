package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/cache"
)

// cacheCommand groups the cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached documents and QR images",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// cacheClearCommand empties the configured cache: the Redis keys written by
// cardpress when CARDPRESS_REDIS_URL is set, the cache directory otherwise.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached document and QR image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				count int
				where string
				err   error
			)
			if c.Config.RedisURL != "" {
				count, err = c.clearRedis(cmd)
				where = "Redis"
			} else {
				count, where, err = c.clearFiles()
			}
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", where)
			return nil
		},
	}
}

func (c *CLI) clearRedis(cmd *cobra.Command) (int, error) {
	rc, err := cache.NewRedisCache(cmd.Context(), c.Config.RedisURL)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return rc.Clear(cmd.Context(), cache.KindArtifact+":*", cache.KindCodedImage+":*")
}

func (c *CLI) clearFiles() (int, string, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return 0, "", fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, "", err
	}
	n, err := fc.Clear()
	return n, dir, err
}

// cachePathCommand prints where the file cache lives.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
