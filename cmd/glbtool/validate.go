package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/internal/logger"
	"github.com/glbforge/glbforge/pkg/glb"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.glb]",
	Short: "Check container structure and buffer cross-references",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	if err := glb.Validate(data); err != nil {
		logger.Sugar.Debugw("validation failed", "file", args[0], "error", err)
		return err
	}

	fmt.Printf("%s: valid GLB container (%d bytes)\n", args[0], len(data))
	return nil
}
