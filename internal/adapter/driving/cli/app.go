package cli

import (
	"context"
	"path/filepath"

	"github.com/cloudrange/aws-inventory-go/internal/application/usecase"
	"github.com/cloudrange/aws-inventory-go/internal/shared/types"
	"github.com/cloudrange/aws-inventory-go/pkg/version"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd     *cobra.Command
	scanUseCase *usecase.ScanUseCase
	version     string
}

// NewCLIApp creates a new CLI application.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "aws-inventory",
		Short:   "AWS resource inventory and capacity scanner",
		Long:    "Scans an AWS account region by region and VPC by VPC, producing a nested JSON inventory of compute, storage, database and network resources with their capacity figures.",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Inventory version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS shared-config profile to use (default: default credential chain)")
	rootCmd.PersistentFlags().StringSliceP("regions", "r", nil, "Regions to scan (comma-separated, default: all enabled regions)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "Resource types to skip, e.g. s3_buckets,ec2_instances")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Path for the inventory JSON document (default: aws_inventory_<timestamp>.json)")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Base name for summary report files (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Summary report types: csv, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Number of regions scanned in parallel (default: 4)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug output")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with the given context so a
// signal-driven cancellation reaches the scan.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	configFile, _ := app.rootCmd.Flags().GetString("config-file")
	profile, _ := app.rootCmd.Flags().GetString("profile")
	regions, _ := app.rootCmd.Flags().GetStringSlice("regions")
	exclude, _ := app.rootCmd.Flags().GetStringSlice("exclude")
	output, _ := app.rootCmd.Flags().GetString("output")
	reportName, _ := app.rootCmd.Flags().GetString("report-name")
	reportType, _ := app.rootCmd.Flags().GetStringSlice("report-type")
	dir, _ := app.rootCmd.Flags().GetString("dir")
	concurrency, _ := app.rootCmd.Flags().GetInt("concurrency")
	verbose, _ := app.rootCmd.Flags().GetBool("verbose")

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	return &types.CLIArgs{
		ConfigFile:  configFile,
		Profile:     profile,
		Regions:     regions,
		Exclude:     exclude,
		OutputPath:  output,
		ReportName:  reportName,
		ReportType:  reportType,
		Dir:         dir,
		Concurrency: concurrency,
		Verbose:     verbose,
	}, nil
}

// runCommand is the main entry point for the CLI command.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner()

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	return app.scanUseCase.RunScan(cmd.Context(), cliArgs)
}

// SetScanUseCase sets the scan use case for the CLI app.
func (app *CLIApp) SetScanUseCase(useCase *usecase.ScanUseCase) {
	app.scanUseCase = useCase
}
