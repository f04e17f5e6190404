package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MadAppGang/sourcemap/internal/cache"
)

func newCacheCmd() *cobra.Command {
	group := &cobra.Command{
		Use:   "cache",
		Short: "Warm and inspect the snapshot cache",
	}

	group.AddCommand(&cobra.Command{
		Use:   "warm <snapshot-file>...",
		Short: "Load one or more snapshots into an in-memory cache and report the count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cache.New(logger)
			for _, path := range args {
				if _, err := c.Get(path); err != nil {
					return fmt.Errorf("warming %s: %w", path, err)
				}
			}
			fmt.Println(okStyle.Render(fmt.Sprintf("warmed %d snapshot(s)", c.Size())))
			return nil
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and report snapshot invalidations as they happen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cache.New(logger)
			w, err := cache.NewWatcher(args[0], c, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			fmt.Println(dimStyle.Render("watching " + args[0] + " — press Ctrl+C to stop"))

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	})

	return group
}
