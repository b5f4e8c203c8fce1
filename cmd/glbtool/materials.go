package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/pkg/metadata"
)

var materialsCmd = &cobra.Command{
	Use:   "materials [file.glb]",
	Short: "List the material catalog embedded in a container",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaterials,
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}

func runMaterials(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	p, err := metadata.Extract(data)
	if err != nil {
		return err
	}

	if len(p.Materials) == 0 {
		fmt.Println("no materials")
		return nil
	}

	for i, m := range p.Materials {
		fmt.Printf("material %d:\n", i)
		if m.Name != "" {
			fmt.Printf("  name:        %s\n", m.Name)
		}
		if m.Description != "" {
			fmt.Printf("  description: %s\n", m.Description)
		}
		if m.Density > 0 {
			fmt.Printf("  density:     %g %s\n", m.Density, m.DensityName)
		}
		if m.BaseColor != nil {
			fmt.Printf("  base color:  %v\n", *m.BaseColor)
		}
		if m.PBR != nil {
			fmt.Printf("  pbr:         metallic=%g roughness=%g\n", m.PBR.Metallic, m.PBR.Roughness)
		}
		if m.Common != nil {
			fmt.Printf("  common:      diffuse=%v shininess=%g\n", m.Common.DiffuseColor, m.Common.Shininess)
		}
	}
	return nil
}
