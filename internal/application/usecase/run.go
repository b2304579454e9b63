package usecase

import (
	"context"
	"fmt"

	"github.com/cloudrange/aws-inventory-go/internal/shared/types"
)

// RunScan is the interactive entry point behind the CLI: it merges file
// configuration into the arguments, runs the scan with console feedback,
// prints the summary table and writes the requested export files.
func (uc *ScanUseCase) RunScan(ctx context.Context, args *types.CLIArgs) error {
	uc.console.SetVerbose(args.Verbose)

	if args.ConfigFile != "" {
		config, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", args.ConfigFile, err)
		}
		mergeConfig(args, config)
	}

	status := uc.console.Status("Resolving account identity...")
	progress := types.ProgressHandle(nil)
	uc.regionsResolved = func(regions []string) {
		status.Stop()
		progress = uc.console.ProgressWithTotal("Scanning regions", len(regions))
	}
	uc.regionDone = func(region string) {
		uc.console.LogDebug("finished region %s", region)
		if progress != nil {
			progress.Increment()
		}
	}
	defer func() {
		uc.regionsResolved = nil
		uc.regionDone = nil
	}()

	account, err := uc.Scan(ctx, args)
	if err != nil {
		status.Stop()
		return err
	}
	if progress != nil {
		progress.Stop()
	}

	summary := Summarize(account)
	uc.renderSummary(account.Metadata.AccountID, summary)
	if summary.ErrorCount > 0 {
		uc.console.LogWarning("%d collection error(s) recorded; see collection_errors in the output document", summary.ErrorCount)
	}

	path, err := uc.exportRepo.ExportInventoryToJSON(account, args.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to write inventory document: %w", err)
	}
	uc.console.LogSuccess("Inventory written to %s", path)

	if args.ReportName != "" {
		for _, reportType := range args.ReportType {
			var path string
			var err error
			switch reportType {
			case "csv":
				path, err = uc.exportRepo.ExportSummaryToCSV(summary, account.Metadata.AccountID, args.ReportName, args.Dir)
			case "pdf":
				path, err = uc.exportRepo.ExportSummaryToPDF(summary, account.Metadata.AccountID, args.ReportName, args.Dir)
			default:
				uc.console.LogWarning("Unknown report type '%s', skipping", reportType)
				continue
			}
			if err != nil {
				uc.console.LogError("Failed to export %s report: %v", reportType, err)
				continue
			}
			uc.console.LogSuccess("Summary report written to %s", path)
		}
	}

	return nil
}

// mergeConfig fills in whatever the command line left unset. Command-line
// values always win over file values.
func mergeConfig(args *types.CLIArgs, config *types.Config) {
	if args.Profile == "" {
		args.Profile = config.Profile
	}
	if len(args.Regions) == 0 {
		args.Regions = config.Regions
	}
	if len(args.Exclude) == 0 {
		args.Exclude = config.Exclude
	}
	if args.OutputPath == "" {
		args.OutputPath = config.OutputPath
	}
	if args.ReportName == "" {
		args.ReportName = config.ReportName
	}
	if len(args.ReportType) == 0 {
		args.ReportType = config.ReportType
	}
	if args.Dir == "" {
		args.Dir = config.Dir
	}
	if args.Concurrency == 0 {
		args.Concurrency = config.Concurrency
	}
}
