package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/pkg/metadata"
)

var stripCmd = &cobra.Command{
	Use:   "strip [file.glb] [out.glb]",
	Short: "Remove face and material metadata from a container",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runStrip,
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

func runStrip(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	out, err := metadata.Strip(data)
	if err != nil {
		return err
	}

	dst := stripOutputPath(args)
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes, was %d)\n", dst, len(out), len(data))
	return nil
}

func stripOutputPath(args []string) string {
	if len(args) == 2 {
		return args[1]
	}
	in := args[0]
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + ".stripped.glb"
}
