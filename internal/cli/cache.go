package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solution cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached solutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.Config.OpenCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			n, err := cc.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached solutions are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch c.Config.Cache.Type {
			case config.CacheNull:
				fmt.Fprintln(out, "disabled")
			case config.CacheRedis:
				fmt.Fprintln(out, c.Config.Cache.RedisURL)
			default:
				dir := c.Config.Cache.Dir
				if dir == "" {
					d, err := config.CacheDir()
					if err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
					dir = d
				}
				fmt.Fprintln(out, dir)
			}
			return nil
		},
	}
}
