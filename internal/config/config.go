// Package config handles glbforge tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Metadata MetadataConfig `yaml:"metadata"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MetadataConfig holds defaults for metadata injection and inspection.
type MetadataConfig struct {
	// FaceTypes filters face descriptors by surface type; empty means all
	// analytic types.
	FaceTypes []string `yaml:"face_types"`

	// IncludeMaterials attaches material catalogs during export.
	IncludeMaterials bool `yaml:"include_materials"`
}

// OutputConfig holds output formatting settings.
type OutputConfig struct {
	Pretty     bool   `yaml:"pretty"`      // Indent extracted JSON
	ExtractDir string `yaml:"extract_dir"` // Destination for extracted chunks
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Metadata: MetadataConfig{
			FaceTypes:        nil,
			IncludeMaterials: false,
		},
		Output: OutputConfig{
			Pretty:     false,
			ExtractDir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
