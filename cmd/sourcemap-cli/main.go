// Command sourcemap-cli is a thin external collaborator around the
// sourcemap engine: JSON envelope I/O, snapshot caching, and terminal
// output live here, deliberately outside the core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MadAppGang/sourcemap/internal/logging"
)

var (
	logLevel   string
	configPath string
	logger     logging.Logger
	cfg        config
)

func main() {
	root := &cobra.Command{
		Use:   "sourcemap-cli",
		Short: "Inspect, transform, and re-emit Source Map v3 data",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			logger = logging.New(logLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default from config or info)")
	root.PersistentFlags().StringVar(&configPath, "config", ".sourcemaprc.toml", "path to config file")

	root.AddCommand(
		newDecodeCmd(),
		newEncodeCmd(),
		newExtendsCmd(),
		newInspectCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
