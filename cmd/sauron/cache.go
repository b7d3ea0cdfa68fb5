// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wevbarker/sauron/internal/cache"
	"github.com/wevbarker/sauron/pkg/types"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the registry lookup cache",
		Long: `Cache operates on the persistent lookup cache used by find. Author
profiles and institution names are cached; searches and membership lists
are always fetched fresh.`,
	}

	cmd.PersistentFlags().String("cache", string(types.CacheSQLite), "lookup cache: sqlite or redis")
	cmd.PersistentFlags().String("cache-dir", types.DefaultFinderConfig().Cache.Dir, "directory for the sqlite lookup cache")
	cmd.PersistentFlags().String("redis-url", "", "redis URL for the redis lookup cache")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			st, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend:  %s\n", st.Backend)
			if st.Location != "" {
				fmt.Fprintf(out, "Location: %s\n", st.Location)
			}
			fmt.Fprintf(out, "Entries:  %d\n", st.Entries)
			fmt.Fprintf(out, "Expired:  %d\n", st.Expired)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

// openCache opens the configured persistent cache. The memory and none
// backends hold nothing between runs and are rejected.
func (a *app) openCache(cmd *cobra.Command) (cache.Store, error) {
	cfg, err := loadFinderConfig(a.v)
	if err != nil {
		return nil, err
	}
	switch cfg.Cache.Backend {
	case types.CacheSQLite, types.CacheRedis:
	default:
		return nil, fmt.Errorf("cache backend %q is not persistent (want sqlite or redis)", cfg.Cache.Backend)
	}
	return cache.Open(cmd.Context(), cfg.Cache)
}
