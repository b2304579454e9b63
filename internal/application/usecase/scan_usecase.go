package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
	"github.com/cloudrange/aws-inventory-go/internal/shared/types"
	"github.com/cloudrange/aws-inventory-go/pkg/version"
)

const defaultConcurrency = 4

// InventoryRepoFactory builds the discovery repository for one profile.
// The factory runs after file configuration has been merged, so a profile
// set only in the config file still takes effect.
type InventoryRepoFactory func(profile string) repository.InventoryRepository

// ScanUseCase orchestrates a full account scan: global collectors, then a
// bounded fan-out over regions, each region fanning out over its VPCs.
type ScanUseCase struct {
	newInventoryRepo InventoryRepoFactory
	exportRepo       repository.ExportRepository
	configRepo       repository.ConfigRepository
	console          types.ConsoleInterface

	// regionsResolved and regionDone, when set, are called once the region
	// list is known and after each region finishes. RunScan uses them to
	// drive the progress bar; Scan itself stays presentation-free.
	regionsResolved func(regions []string)
	regionDone      func(region string)
}

// NewScanUseCase creates a new scan use case.
func NewScanUseCase(
	newInventoryRepo InventoryRepoFactory,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *ScanUseCase {
	return &ScanUseCase{
		newInventoryRepo: newInventoryRepo,
		exportRepo:       exportRepo,
		configRepo:       configRepo,
		console:          console,
	}
}

// Scan runs the discovery and returns the assembled inventory document.
// It touches only the inventory repository, never the console or exports,
// so two runs against an unchanged account produce identical documents up
// to the scan timestamp.
func (uc *ScanUseCase) Scan(ctx context.Context, args *types.CLIArgs) (*entity.Account, error) {
	inventoryRepo := uc.newInventoryRepo(args.Profile)

	accountID, err := inventoryRepo.GetAccountID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNoCredentials, err)
	}

	regions := args.Regions
	if len(regions) == 0 {
		regions, err = inventoryRepo.GetEnabledRegions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to discover enabled regions: %w", err)
		}
	}
	if len(regions) == 0 {
		return nil, types.ErrNoRegions
	}
	if uc.regionsResolved != nil {
		uc.regionsResolved(regions)
	}

	excluded := normalizeExclusions(args.Exclude)
	global, regionWide, vpcScoped := partitionCollectors(inventoryRepo.Collectors(), excluded)

	account := entity.NewAccount(entity.ScanMetadata{
		AccountID:     accountID,
		ScannedAt:     time.Now().UTC(),
		ToolVersion:   version.Version,
		Regions:       regions,
		ExcludedTypes: sortedKeys(excluded),
	})

	for _, collector := range global {
		scope := repository.Scope{Excluded: excluded}
		applyToGroup(account.GlobalResources, collector, collector.Collect(ctx, scope), excluded)
	}

	concurrency := args.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	// Reports are created up front so each goroutine mutates only its own
	// report and never the shared map.
	for _, region := range regions {
		account.Regions[region] = entity.NewRegionReport(region)
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, region := range regions {
		wg.Add(1)
		sem <- struct{}{}
		go func(report *entity.RegionReport) {
			defer wg.Done()
			defer func() { <-sem }()
			uc.scanRegion(ctx, inventoryRepo, report, regionWide, vpcScoped, excluded)
			if uc.regionDone != nil {
				uc.regionDone(report.Region)
			}
		}(account.Regions[region])
	}
	wg.Wait()

	return account, nil
}

// scanRegion fills one region report. A VPC listing failure marks the
// whole region inaccessible; region-wide collectors still run, since they
// do not depend on the VPC list.
func (uc *ScanUseCase) scanRegion(
	ctx context.Context,
	inventoryRepo repository.InventoryRepository,
	report *entity.RegionReport,
	regionWide []repository.Collector,
	vpcScoped []repository.Collector,
	excluded map[string]bool,
) {
	scope := repository.Scope{Region: report.Region, Excluded: excluded}
	for _, collector := range regionWide {
		applyToGroup(report.RegionWide, collector, collector.Collect(ctx, scope), excluded)
	}

	vpcs, err := inventoryRepo.ListVpcs(ctx, report.Region)
	if err != nil {
		report.Error = &entity.CollectionError{
			Status:  entity.StatusFailed,
			Kind:    errorKindOf(err),
			Message: err.Error(),
		}
		return
	}

	for _, vpc := range vpcs {
		report.Vpcs[vpc.VpcID] = entity.NewVpcReport(vpc)
	}

	var wg sync.WaitGroup
	for _, vpc := range vpcs {
		wg.Add(1)
		go func(vpcReport *entity.VpcReport) {
			defer wg.Done()
			uc.scanVpc(ctx, vpcReport, vpcScoped, excluded)
		}(report.Vpcs[vpc.VpcID])
	}
	wg.Wait()
}

// scanVpc runs every VPC-scoped collector against one VPC and routes each
// result into the report section the collector belongs to. Collector
// failures are isolated: one failed type never suppresses the others.
func (uc *ScanUseCase) scanVpc(ctx context.Context, report *entity.VpcReport, collectors []repository.Collector, excluded map[string]bool) {
	scope := repository.Scope{Region: report.Info.Region, VpcID: report.Info.VpcID, Excluded: excluded}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, collector := range collectors {
		wg.Add(1)
		go func(c repository.Collector) {
			defer wg.Done()
			result := c.Collect(ctx, scope)

			mu.Lock()
			defer mu.Unlock()
			switch c.Section() {
			case repository.SectionSecurity:
				if result.Status != entity.StatusFailed {
					resources := result.Resources
					if resources == nil {
						resources = []entity.Resource{}
					}
					report.SecurityGroups = resources
				}
			case repository.SectionNetwork:
				if result.Status != entity.StatusFailed {
					report.NetworkComponents[c.Key()] = nonNil(result.Resources)
				}
			default:
				if result.Status != entity.StatusFailed {
					report.Resources[c.Key()] = stripExcluded(nonNil(result.Resources), excluded)
				}
			}
			if result.Status != entity.StatusComplete {
				report.Errors[c.Key()] = collectionError(result)
			}
		}(collector)
	}
	wg.Wait()
}

// partitionCollectors splits the registry by scope kind, dropping excluded
// types before any API call is made.
func partitionCollectors(collectors []repository.Collector, excluded map[string]bool) (global, regionWide, vpcScoped []repository.Collector) {
	for _, collector := range collectors {
		if excluded[collector.Key()] {
			continue
		}
		switch collector.ScopeKind() {
		case repository.ScopeGlobal:
			global = append(global, collector)
		case repository.ScopeRegion:
			regionWide = append(regionWide, collector)
		case repository.ScopeVpc:
			vpcScoped = append(vpcScoped, collector)
		}
	}
	return global, regionWide, vpcScoped
}

// applyToGroup merges one collector outcome into a flat resource group.
// Failed collectors leave no data key, only an error placeholder.
func applyToGroup(group *entity.ResourceGroup, c repository.Collector, result repository.CollectorResult, excluded map[string]bool) {
	if result.Status != entity.StatusFailed {
		group.Add(c.Key(), stripExcluded(result.Resources, excluded))
	}
	if result.Status != entity.StatusComplete {
		group.RecordError(c.Key(), collectionError(result))
	}
}

// stripExcluded drops nested volume records when the volume type is
// excluded, so the exclusion holds at every nesting level even if a
// collector ignored the scope's exclusion set.
func stripExcluded(resources []entity.Resource, excluded map[string]bool) []entity.Resource {
	if !excluded[entity.TypeEBSVolumes] {
		return resources
	}
	for i, resource := range resources {
		if instance, ok := resource.(entity.EC2Instance); ok {
			instance.Volumes = nil
			resources[i] = instance
		}
	}
	return resources
}

func collectionError(result repository.CollectorResult) entity.CollectionError {
	message := ""
	if result.Err != nil {
		message = result.Err.Error()
	}
	return entity.CollectionError{
		Status:  result.Status,
		Kind:    result.ErrorKind,
		Message: message,
	}
}

// errorKindOf recovers the taxonomy kind from a classified error chain.
func errorKindOf(err error) entity.ErrorKind {
	var classified *entity.ClassifiedError
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return entity.ErrUnknown
}

func nonNil(resources []entity.Resource) []entity.Resource {
	if resources == nil {
		return []entity.Resource{}
	}
	return resources
}

func normalizeExclusions(exclude []string) map[string]bool {
	excluded := make(map[string]bool, len(exclude))
	for _, token := range exclude {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			excluded[token] = true
		}
	}
	return excluded
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
