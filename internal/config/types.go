package config

// Config is the top-level configuration structure parsed from octocheck YAML.
type Config struct {
	Check  Check   `yaml:"check"`
	Paths  Paths   `yaml:"paths"`
	Inputs []Input `yaml:"inputs"`
}

// Check identifies the check run submitted to GitHub.
type Check struct {
	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	DetailsURL string `yaml:"details_url"`
}

// Paths rewrites annotation paths so they are relative to the repository
// root: del_prefix is stripped when present, then add_prefix is prepended.
type Paths struct {
	AddPrefix string `yaml:"add_prefix"`
	DelPrefix string `yaml:"del_prefix"`
}

// Input maps one grammar to the report files it should parse. Patterns
// support ** globbing; the literal "-" reads standard input.
type Input struct {
	Grammar  string   `yaml:"grammar"`
	Patterns []string `yaml:"patterns"`
}
