package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
	"github.com/cloudrange/aws-inventory-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollector returns canned results and records every scope it was
// invoked with.
type fakeCollector struct {
	key     string
	scope   repository.ScopeKind
	section repository.Section
	collect func(scope repository.Scope) repository.CollectorResult

	mu    sync.Mutex
	calls []repository.Scope
}

func (c *fakeCollector) Key() string                     { return c.key }
func (c *fakeCollector) ScopeKind() repository.ScopeKind { return c.scope }
func (c *fakeCollector) Section() repository.Section     { return c.section }

func (c *fakeCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	c.mu.Lock()
	c.calls = append(c.calls, scope)
	c.mu.Unlock()
	if c.collect != nil {
		return c.collect(scope)
	}
	return repository.CollectorResult{Resources: []entity.Resource{}, Status: entity.StatusComplete}
}

func (c *fakeCollector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type fakeInventoryRepo struct {
	accountID  string
	accountErr error
	regions    []string
	regionsErr error
	vpcs       map[string][]entity.VpcInfo
	vpcErrs    map[string]error
	collectors []repository.Collector
}

func (r *fakeInventoryRepo) GetAccountID(ctx context.Context) (string, error) {
	if r.accountErr != nil {
		return "", r.accountErr
	}
	return r.accountID, nil
}

func (r *fakeInventoryRepo) GetEnabledRegions(ctx context.Context) ([]string, error) {
	return r.regions, r.regionsErr
}

func (r *fakeInventoryRepo) ListVpcs(ctx context.Context, region string) ([]entity.VpcInfo, error) {
	if err, ok := r.vpcErrs[region]; ok {
		return nil, err
	}
	return r.vpcs[region], nil
}

func (r *fakeInventoryRepo) Collectors() []repository.Collector {
	return r.collectors
}

func newTestUseCase(repo repository.InventoryRepository) *ScanUseCase {
	return NewScanUseCase(
		func(profile string) repository.InventoryRepository { return repo },
		nil, nil, nil,
	)
}

func complete(resources ...entity.Resource) func(repository.Scope) repository.CollectorResult {
	return func(repository.Scope) repository.CollectorResult {
		if resources == nil {
			resources = []entity.Resource{}
		}
		return repository.CollectorResult{Resources: resources, Status: entity.StatusComplete}
	}
}

func vpc(id, region string) entity.VpcInfo {
	return entity.VpcInfo{VpcID: id, CidrBlock: "10.0.0.0/16", State: "available", Region: region}
}

func TestScanAbortsWithoutCredentials(t *testing.T) {
	repo := &fakeInventoryRepo{accountErr: errors.New("no providers")}
	uc := newTestUseCase(repo)

	_, err := uc.Scan(context.Background(), &types.CLIArgs{})
	require.ErrorIs(t, err, types.ErrNoCredentials)
}

func TestScanFailsWithNoRegions(t *testing.T) {
	repo := &fakeInventoryRepo{accountID: "123456789012"}
	uc := newTestUseCase(repo)

	_, err := uc.Scan(context.Background(), &types.CLIArgs{})
	require.ErrorIs(t, err, types.ErrNoRegions)
}

func TestScanAssemblesFullDocument(t *testing.T) {
	buckets := &fakeCollector{
		key: entity.TypeS3Buckets, scope: repository.ScopeGlobal,
		collect: complete(entity.S3Bucket{Name: "data", Region: "us-east-1"}),
	}
	tables := &fakeCollector{
		key: entity.TypeDynamoDBTables, scope: repository.ScopeRegion,
		collect: complete(entity.DynamoDBTable{TableName: "events", Region: "us-east-1"}),
	}
	instances := &fakeCollector{
		key: entity.TypeEC2Instances, scope: repository.ScopeVpc,
		collect: complete(
			entity.EC2Instance{InstanceID: "i-1", Volumes: []entity.EBSVolume{{VolumeID: "vol-1", SizeGB: 100}, {VolumeID: "vol-2", SizeGB: 50}}},
			entity.EC2Instance{InstanceID: "i-2", Volumes: []entity.EBSVolume{}},
		),
	}
	groups := &fakeCollector{
		key: entity.TypeSecurityGroups, scope: repository.ScopeVpc, section: repository.SectionSecurity,
		collect: complete(entity.SecurityGroup{GroupID: "sg-1"}),
	}
	subnets := &fakeCollector{
		key: entity.TypeSubnets, scope: repository.ScopeVpc, section: repository.SectionNetwork,
		collect: complete(entity.Subnet{SubnetID: "subnet-1"}),
	}

	repo := &fakeInventoryRepo{
		accountID: "123456789012",
		vpcs:      map[string][]entity.VpcInfo{"us-east-1": {vpc("vpc-abc", "us-east-1")}},
		collectors: []repository.Collector{
			buckets, tables, instances, groups, subnets,
		},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{Regions: []string{"us-east-1"}})
	require.NoError(t, err)

	assert.Equal(t, "123456789012", account.Metadata.AccountID)
	assert.Equal(t, []string{"us-east-1"}, account.Metadata.Regions)
	require.Len(t, account.GlobalResources.Resources[entity.TypeS3Buckets], 1)

	region := account.Regions["us-east-1"]
	require.NotNil(t, region)
	require.Len(t, region.RegionWide.Resources[entity.TypeDynamoDBTables], 1)

	report := region.Vpcs["vpc-abc"]
	require.NotNil(t, report)
	assert.Len(t, report.Resources[entity.TypeEC2Instances], 2)
	assert.Len(t, report.SecurityGroups, 1)
	assert.Len(t, report.NetworkComponents[entity.TypeSubnets], 1)
	assert.Empty(t, report.Errors)

	// Global collector runs once, region-wide once per region, VPC-scoped
	// once per VPC.
	assert.Equal(t, 1, buckets.callCount())
	assert.Equal(t, 1, tables.callCount())
	assert.Equal(t, 1, instances.callCount())
}

func TestScanExcludedTypesNeverInvoked(t *testing.T) {
	buckets := &fakeCollector{key: entity.TypeS3Buckets, scope: repository.ScopeGlobal}
	instances := &fakeCollector{key: entity.TypeEC2Instances, scope: repository.ScopeVpc}
	subnets := &fakeCollector{key: entity.TypeSubnets, scope: repository.ScopeVpc, section: repository.SectionNetwork}

	repo := &fakeInventoryRepo{
		accountID:  "123456789012",
		vpcs:       map[string][]entity.VpcInfo{"us-east-1": {vpc("vpc-abc", "us-east-1")}},
		collectors: []repository.Collector{buckets, instances, subnets},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{
		Regions: []string{"us-east-1"},
		Exclude: []string{"S3_Buckets", " ec2_instances "},
	})
	require.NoError(t, err)

	assert.Zero(t, buckets.callCount())
	assert.Zero(t, instances.callCount())
	assert.Equal(t, 1, subnets.callCount())

	assert.NotContains(t, account.GlobalResources.Resources, entity.TypeS3Buckets)
	report := account.Regions["us-east-1"].Vpcs["vpc-abc"]
	assert.NotContains(t, report.Resources, entity.TypeEC2Instances)
	assert.NotContains(t, report.Errors, entity.TypeEC2Instances)
	assert.Equal(t, []string{"ec2_instances", "s3_buckets"}, account.Metadata.ExcludedTypes)
}

func TestScanExcludedVolumesLeaveNoNestedKey(t *testing.T) {
	// The collector ignores the scope's exclusion set and hands back
	// instances with volumes attached; the document must still come out
	// without an ebs_volumes key at any nesting level.
	instances := &fakeCollector{
		key: entity.TypeEC2Instances, scope: repository.ScopeVpc,
		collect: complete(entity.EC2Instance{
			InstanceID:   "i-1",
			InstanceType: "t3.micro",
			State:        "running",
			Region:       "us-east-1",
			Volumes:      []entity.EBSVolume{{VolumeID: "vol-1", SizeGB: 100}},
		}),
	}
	repo := &fakeInventoryRepo{
		accountID:  "123456789012",
		vpcs:       map[string][]entity.VpcInfo{"us-east-1": {vpc("vpc-abc", "us-east-1")}},
		collectors: []repository.Collector{instances},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{
		Regions: []string{"us-east-1"},
		Exclude: []string{"ebs_volumes"},
	})
	require.NoError(t, err)

	// The exclusion set travels with the scope so real collectors can skip
	// the volume lookup entirely.
	require.Equal(t, 1, instances.callCount())
	assert.True(t, instances.calls[0].Excluded[entity.TypeEBSVolumes])

	doc, err := json.Marshal(account)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), `"ebs_volumes"`)
	assert.Contains(t, string(doc), `"instance_id":"i-1"`)
}

func TestScanRegionWithZeroVpcsKeepsRegionWide(t *testing.T) {
	tables := &fakeCollector{
		key: entity.TypeDynamoDBTables, scope: repository.ScopeRegion,
		collect: complete(),
	}
	repo := &fakeInventoryRepo{
		accountID:  "123456789012",
		vpcs:       map[string][]entity.VpcInfo{"eu-north-1": {}},
		collectors: []repository.Collector{tables},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{Regions: []string{"eu-north-1"}})
	require.NoError(t, err)

	region := account.Regions["eu-north-1"]
	assert.Empty(t, region.Vpcs)
	require.Contains(t, region.RegionWide.Resources, entity.TypeDynamoDBTables)
	assert.Empty(t, region.RegionWide.Resources[entity.TypeDynamoDBTables])
}

func TestScanIsolatesCollectorFailures(t *testing.T) {
	groups := &fakeCollector{
		key: entity.TypeSecurityGroups, scope: repository.ScopeVpc, section: repository.SectionSecurity,
		collect: func(repository.Scope) repository.CollectorResult {
			return repository.CollectorResult{
				Status:    entity.StatusFailed,
				ErrorKind: entity.ErrAccessDenied,
				Err:       errors.New("UnauthorizedOperation"),
			}
		},
	}
	instances := &fakeCollector{
		key: entity.TypeEC2Instances, scope: repository.ScopeVpc,
		collect: complete(entity.EC2Instance{InstanceID: "i-1", Volumes: []entity.EBSVolume{}}),
	}

	repo := &fakeInventoryRepo{
		accountID:  "123456789012",
		vpcs:       map[string][]entity.VpcInfo{"us-east-1": {vpc("vpc-abc", "us-east-1")}},
		collectors: []repository.Collector{groups, instances},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{Regions: []string{"us-east-1"}})
	require.NoError(t, err)

	report := account.Regions["us-east-1"].Vpcs["vpc-abc"]
	assert.Nil(t, report.SecurityGroups)
	assert.Len(t, report.Resources[entity.TypeEC2Instances], 1)

	placeholder := report.Errors[entity.TypeSecurityGroups]
	assert.Equal(t, entity.StatusFailed, placeholder.Status)
	assert.Equal(t, entity.ErrAccessDenied, placeholder.Kind)
	assert.Equal(t, "UnauthorizedOperation", placeholder.Message)
}

func TestScanPartialResultKeepsDataAndRecordsError(t *testing.T) {
	subnets := &fakeCollector{
		key: entity.TypeSubnets, scope: repository.ScopeVpc, section: repository.SectionNetwork,
		collect: func(repository.Scope) repository.CollectorResult {
			return repository.CollectorResult{
				Resources: []entity.Resource{entity.Subnet{SubnetID: "subnet-1"}},
				Status:    entity.StatusPartial,
				ErrorKind: entity.ErrPartialPagination,
				Err:       errors.New("Throttling on page 3"),
			}
		},
	}
	repo := &fakeInventoryRepo{
		accountID:  "123456789012",
		vpcs:       map[string][]entity.VpcInfo{"us-east-1": {vpc("vpc-abc", "us-east-1")}},
		collectors: []repository.Collector{subnets},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{Regions: []string{"us-east-1"}})
	require.NoError(t, err)

	report := account.Regions["us-east-1"].Vpcs["vpc-abc"]
	assert.Len(t, report.NetworkComponents[entity.TypeSubnets], 1)
	placeholder := report.Errors[entity.TypeSubnets]
	assert.Equal(t, entity.StatusPartial, placeholder.Status)
	assert.Equal(t, entity.ErrPartialPagination, placeholder.Kind)
}

func TestScanIsolatesRegionFailures(t *testing.T) {
	tables := &fakeCollector{
		key: entity.TypeDynamoDBTables, scope: repository.ScopeRegion,
		collect: complete(entity.DynamoDBTable{TableName: "events"}),
	}
	repo := &fakeInventoryRepo{
		accountID: "123456789012",
		vpcs:      map[string][]entity.VpcInfo{"us-east-1": {vpc("vpc-abc", "us-east-1")}},
		vpcErrs: map[string]error{
			"ap-south-1": &entity.ClassifiedError{Kind: entity.ErrNotEnabled, Err: errors.New("OptInRequired")},
		},
		collectors: []repository.Collector{tables},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{Regions: []string{"us-east-1", "ap-south-1"}})
	require.NoError(t, err)

	healthy := account.Regions["us-east-1"]
	assert.Nil(t, healthy.Error)
	assert.Contains(t, healthy.Vpcs, "vpc-abc")

	failed := account.Regions["ap-south-1"]
	require.NotNil(t, failed.Error)
	assert.Equal(t, entity.ErrNotEnabled, failed.Error.Kind)
	assert.Empty(t, failed.Vpcs)
	// Region-wide collectors do not depend on the VPC list and still run.
	assert.Contains(t, failed.RegionWide.Resources, entity.TypeDynamoDBTables)
}

func TestScanUsesEnabledRegionsWhenNoneGiven(t *testing.T) {
	repo := &fakeInventoryRepo{
		accountID: "123456789012",
		regions:   []string{"eu-west-1", "us-east-1"},
		vpcs:      map[string][]entity.VpcInfo{},
	}
	uc := newTestUseCase(repo)

	account, err := uc.Scan(context.Background(), &types.CLIArgs{})
	require.NoError(t, err)
	assert.Len(t, account.Regions, 2)
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, account.Metadata.Regions)
}

func TestScanIsIdempotentUpToTimestamp(t *testing.T) {
	instances := &fakeCollector{
		key: entity.TypeEC2Instances, scope: repository.ScopeVpc,
		collect: complete(entity.EC2Instance{InstanceID: "i-1", Volumes: []entity.EBSVolume{{VolumeID: "vol-1", SizeGB: 100}}}),
	}
	repo := &fakeInventoryRepo{
		accountID: "123456789012",
		vpcs: map[string][]entity.VpcInfo{
			"us-east-1": {vpc("vpc-abc", "us-east-1")},
			"eu-west-1": {vpc("vpc-def", "eu-west-1"), vpc("vpc-ghi", "eu-west-1")},
		},
		collectors: []repository.Collector{instances},
	}
	uc := newTestUseCase(repo)
	args := &types.CLIArgs{Regions: []string{"us-east-1", "eu-west-1"}, Concurrency: 2}

	first, err := uc.Scan(context.Background(), args)
	require.NoError(t, err)
	second, err := uc.Scan(context.Background(), args)
	require.NoError(t, err)

	first.Metadata.ScannedAt = time.Time{}
	second.Metadata.ScannedAt = time.Time{}

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestMergeConfigCommandLineWins(t *testing.T) {
	args := &types.CLIArgs{Profile: "prod", Regions: []string{"us-east-1"}}
	mergeConfig(args, &types.Config{
		Profile:     "staging",
		Regions:     []string{"eu-west-1"},
		Exclude:     []string{"s3_buckets"},
		Concurrency: 8,
	})

	assert.Equal(t, "prod", args.Profile)
	assert.Equal(t, []string{"us-east-1"}, args.Regions)
	assert.Equal(t, []string{"s3_buckets"}, args.Exclude)
	assert.Equal(t, 8, args.Concurrency)
}
