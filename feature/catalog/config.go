package catalog

// Config locates the built catalog files.
type Config struct {
	// Dir is the directory the artifact and manifest are written to and served from.
	Dir string `mapstructure:"dir" default:"."`
	// Output is the artifact filename.
	Output string `mapstructure:"output" default:"data.json"`
	// Manifest is the asset manifest filename.
	Manifest string `mapstructure:"manifest" default:"manifest.json"`
}
