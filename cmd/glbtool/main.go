package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/internal/config"
	"github.com/glbforge/glbforge/internal/logger"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "glbtool",
	Short: "Inspect and rework GLB containers produced by glbforge",
	Long: `glbtool works with binary glTF (GLB) containers and the GF_brep_faces
metadata glbforge embeds in them: per-face analytic surface geometry,
per-triangle face mapping, and material catalogs.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if flagVerbose {
			level = "debug"
		}
		return logger.Init(level, cfg.Logging.LogFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
