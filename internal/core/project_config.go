package core

// ProjectConfig holds per-project review settings loaded from a .codesense.yml
// file in the reviewed repository or working directory.
type ProjectConfig struct {
	// AnalysisType is the default review focus when no flag is given.
	AnalysisType string `yaml:"analysis_type"`
	// Ignore lists glob patterns for files that should never be reviewed.
	Ignore []string `yaml:"ignore"`
	// MaxFileBytes caps the size of a single file sent to the model.
	MaxFileBytes int `yaml:"max_file_bytes"`
}

// DefaultProjectConfig returns the settings used when no .codesense.yml exists.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		AnalysisType: string(AnalysisGeneral),
		Ignore: []string{
			"vendor/**",
			"node_modules/**",
			"**/*_test.go",
			"**/*.min.js",
		},
		MaxFileBytes: 65536,
	}
}
