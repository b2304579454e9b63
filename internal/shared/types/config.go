package types

// Config represents the scan configuration that can be loaded from a file.
// File values fill in whatever the command line left unset.
type Config struct {
	Profile     string   `json:"profile" yaml:"profile" toml:"profile"`
	Regions     []string `json:"regions" yaml:"regions" toml:"regions"`
	Exclude     []string `json:"exclude" yaml:"exclude" toml:"exclude"`
	OutputPath  string   `json:"output" yaml:"output" toml:"output"`
	ReportName  string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType  []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir         string   `json:"dir" yaml:"dir" toml:"dir"`
	Concurrency int      `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
}
