package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glbforge/glbforge/pkg/metadata"
)

var (
	flagFaceTypes []string
	flagFacesJSON bool
)

var facesCmd = &cobra.Command{
	Use:   "faces [file.glb]",
	Short: "List the face descriptors embedded in a container",
	Args:  cobra.ExactArgs(1),
	RunE:  runFaces,
}

func init() {
	facesCmd.Flags().StringSliceVar(&flagFaceTypes, "types", nil, "only show these surface types (default from config)")
	facesCmd.Flags().BoolVar(&flagFacesJSON, "json", false, "dump raw descriptor JSON")
	rootCmd.AddCommand(facesCmd)
}

func runFaces(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	p, err := metadata.Extract(data)
	if err != nil {
		return err
	}

	types := flagFaceTypes
	if len(types) == 0 {
		types = cfg.Metadata.FaceTypes
	}
	wanted := func(name string) bool {
		if len(types) == 0 {
			return true
		}
		for _, t := range types {
			if t == name {
				return true
			}
		}
		return false
	}

	if flagFacesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Faces)
	}

	fmt.Printf("%d face slots\n\n", len(p.Faces))
	for i, f := range p.Faces {
		if f == nil {
			fmt.Printf("%4d  -\n", i)
			continue
		}
		if !wanted(f.Type) {
			continue
		}

		switch f.Type {
		case "plane":
			fmt.Printf("%4d  plane     origin=%v normal=%v\n", i, *f.Origin, *f.Normal)
		case "cylinder":
			fmt.Printf("%4d  cylinder  origin=%v axis=%v radius=%g\n", i, *f.Origin, *f.Axis, *f.Radius)
		case "cone":
			fmt.Printf("%4d  cone      apex=%v axis=%v semi_angle=%g\n", i, *f.Apex, *f.Axis, *f.SemiAngle)
		case "sphere":
			fmt.Printf("%4d  sphere    center=%v radius=%g\n", i, *f.Center, *f.Radius)
		case "torus":
			fmt.Printf("%4d  torus     center=%v axis=%v R=%g r=%g\n", i, *f.Center, *f.Axis, *f.MajorRadius, *f.MinorRadius)
		default:
			fmt.Printf("%4d  %s\n", i, f.Type)
		}
	}
	return nil
}
