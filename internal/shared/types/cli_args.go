package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	Profile     string
	Regions     []string
	Exclude     []string
	OutputPath  string
	ReportName  string
	ReportType  []string
	Dir         string
	Concurrency int
	Verbose     bool
}
