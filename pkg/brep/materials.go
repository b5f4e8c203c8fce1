package brep

// RGB is a red/green/blue color with components in [0, 1].
type RGB [3]float64

// RGBA is an RGB color plus alpha, components in [0, 1].
type RGBA [4]float64

// PhysicalMaterial is one entry of a document's physical material table:
// name, free-form description, and density with its unit metadata.
type PhysicalMaterial struct {
	Name             string
	Description      string
	Density          float64
	DensityName      string
	DensityValueType string
}

// VisualMaterial is one entry of a document's visual material table. PBR
// and Common are optional sub-blocks; a visual material with no base
// color and neither block is considered empty.
type VisualMaterial struct {
	Name        string
	BaseColor   *RGBA
	AlphaCutoff float64
	PBR         *PBRMaterial
	Common      *CommonMaterial
}

// PBRMaterial is the metallic-roughness block of a visual material.
type PBRMaterial struct {
	BaseColor       RGBA
	Metallic        float64
	Roughness       float64
	RefractionIndex float64
	EmissiveFactor  RGB
}

// CommonMaterial is the legacy fixed-function block of a visual material.
type CommonMaterial struct {
	AmbientColor  RGB
	DiffuseColor  RGB
	SpecularColor RGB
	EmissiveColor RGB
	Shininess     float64
	Transparency  float64
}

// Material is one material descriptor as serialized into container
// metadata, covering entries from both document tables. Physical entries
// populate the description/density fields; visual entries the color
// fields.
type Material struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	Density          float64 `json:"density,omitempty"`
	DensityName      string  `json:"density_name,omitempty"`
	DensityValueType string  `json:"density_value_type,omitempty"`

	BaseColor   *RGBA           `json:"base_color,omitempty"`
	AlphaCutoff *float64        `json:"alpha_cutoff,omitempty"`
	PBR         *MaterialPBR    `json:"pbr,omitempty"`
	Common      *MaterialCommon `json:"common,omitempty"`
}

// MaterialPBR is the serialized form of a PBR block.
type MaterialPBR struct {
	BaseColor       RGBA    `json:"base_color"`
	Metallic        float64 `json:"metallic"`
	Roughness       float64 `json:"roughness"`
	RefractionIndex float64 `json:"refraction_index"`
	EmissiveFactor  RGB     `json:"emissive_factor"`
}

// MaterialCommon is the serialized form of a legacy common block.
type MaterialCommon struct {
	AmbientColor  RGB     `json:"ambient_color"`
	DiffuseColor  RGB     `json:"diffuse_color"`
	SpecularColor RGB     `json:"specular_color"`
	EmissiveColor RGB     `json:"emissive_color"`
	Shininess     float64 `json:"shininess"`
	Transparency  float64 `json:"transparency"`
}

// Materials builds the document's material catalog: physical table entries
// first in table order, then visual entries in table order. The two tables
// are independent and are not correlated by name. Empty visual entries are
// omitted entirely.
func Materials(doc Document) []Material {
	if doc == nil {
		return nil
	}

	var out []Material

	for _, pm := range doc.PhysicalMaterials() {
		m := Material{
			Name:        pm.Name,
			Description: pm.Description,
		}
		// Density metadata only accompanies a real density value.
		if pm.Density > 0 {
			m.Density = pm.Density
			m.DensityName = pm.DensityName
			m.DensityValueType = pm.DensityValueType
		}
		out = append(out, m)
	}

	for _, vm := range doc.VisualMaterials() {
		if vm.BaseColor == nil && vm.PBR == nil && vm.Common == nil {
			continue
		}

		m := Material{Name: vm.Name}
		if vm.BaseColor != nil {
			c := *vm.BaseColor
			m.BaseColor = &c
			cutoff := vm.AlphaCutoff
			m.AlphaCutoff = &cutoff
		}
		if vm.PBR != nil {
			m.PBR = &MaterialPBR{
				BaseColor:       vm.PBR.BaseColor,
				Metallic:        vm.PBR.Metallic,
				Roughness:       vm.PBR.Roughness,
				RefractionIndex: vm.PBR.RefractionIndex,
				EmissiveFactor:  vm.PBR.EmissiveFactor,
			}
		}
		if vm.Common != nil {
			m.Common = &MaterialCommon{
				AmbientColor:  vm.Common.AmbientColor,
				DiffuseColor:  vm.Common.DiffuseColor,
				SpecularColor: vm.Common.SpecularColor,
				EmissiveColor: vm.Common.EmissiveColor,
				Shininess:     vm.Common.Shininess,
				Transparency:  vm.Common.Transparency,
			}
		}
		out = append(out, m)
	}

	return out
}
