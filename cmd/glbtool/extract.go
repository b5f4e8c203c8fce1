package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/internal/logger"
	"github.com/glbforge/glbforge/pkg/glb"
)

var (
	flagExtractPretty bool
	flagExtractDir    string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file.glb]",
	Short: "Write a container's JSON and binary chunks to separate files",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&flagExtractPretty, "pretty", false, "indent the extracted JSON chunk")
	extractCmd.Flags().StringVarP(&flagExtractDir, "out", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	c, err := glb.ParseFile(args[0])
	if err != nil {
		return err
	}

	dir := flagExtractDir
	if dir == "" {
		dir = cfg.Output.ExtractDir
	}
	if dir == "" {
		dir = filepath.Dir(args[0])
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

	jsonOut := bytes.TrimRight(c.JSON, " ")
	if flagExtractPretty || cfg.Output.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, jsonOut, "", "  "); err != nil {
			return err
		}
		jsonOut = buf.Bytes()
	}

	jsonPath := filepath.Join(dir, base+".gltf.json")
	if err := os.WriteFile(jsonPath, jsonOut, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", jsonPath, len(jsonOut))

	if len(c.Bin) > 0 {
		binPath := filepath.Join(dir, base+".bin")
		if err := os.WriteFile(binPath, c.Bin, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", binPath, len(c.Bin))
	} else {
		logger.Log.Debug("container carries no binary chunk")
	}

	return nil
}
