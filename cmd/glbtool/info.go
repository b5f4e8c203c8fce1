package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/pkg/glb"
	"github.com/glbforge/glbforge/pkg/metadata"
)

var infoCmd = &cobra.Command{
	Use:   "info [file.glb]",
	Short: "Display container layout and scene statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	c, err := glb.Parse(data)
	if err != nil {
		return err
	}

	fmt.Println("GLB Container")
	fmt.Println("=============")
	fmt.Printf("File: %s\n\n", args[0])

	fmt.Println("Chunks:")
	fmt.Printf("  Total size:   %d bytes\n", len(data))
	fmt.Printf("  JSON chunk:   %d bytes\n", len(c.JSON))
	if c.Bin != nil {
		fmt.Printf("  Binary chunk: %d bytes\n\n", len(c.Bin))
	} else {
		fmt.Printf("  Binary chunk: absent\n\n")
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return err
	}

	fmt.Println("Scene:")
	if doc.Asset.Generator != "" {
		fmt.Printf("  Generator:   %s\n", doc.Asset.Generator)
	}
	fmt.Printf("  Meshes:      %d\n", len(doc.Meshes))
	primitives, triangles := 0, 0
	for _, mesh := range doc.Meshes {
		primitives += len(mesh.Primitives)
		for _, prim := range mesh.Primitives {
			if prim.Indices != nil {
				triangles += int(doc.Accessors[*prim.Indices].Count) / 3
			}
		}
	}
	fmt.Printf("  Primitives:  %d\n", primitives)
	fmt.Printf("  Triangles:   %d\n", triangles)
	fmt.Printf("  Accessors:   %d\n", len(doc.Accessors))
	fmt.Printf("  BufferViews: %d\n", len(doc.BufferViews))
	if len(doc.ExtensionsUsed) > 0 {
		fmt.Printf("  Extensions:  %v\n", doc.ExtensionsUsed)
	}

	if p, err := metadata.Extract(data); err == nil {
		described := 0
		for _, f := range p.Faces {
			if f != nil {
				described++
			}
		}
		fmt.Println("\nMetadata:")
		fmt.Printf("  Face slots:      %d (%d described)\n", len(p.Faces), described)
		fmt.Printf("  Face indices:    %d triangles\n", len(p.FaceIndices))
		fmt.Printf("  Materials:       %d\n", len(p.Materials))
	}

	return nil
}
