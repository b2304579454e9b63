package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

// InventoryRepositoryImpl implements the InventoryRepository against the
// AWS APIs, holding the client factory and the collector registry.
type InventoryRepositoryImpl struct {
	clients    *ClientFactory
	collectors []repository.Collector
}

// NewInventoryRepository builds the repository with the full collector
// registry. Adding a resource type means registering one more collector
// here.
func NewInventoryRepository(profile string) repository.InventoryRepository {
	clients := NewClientFactory(profile)

	collectors := []repository.Collector{
		// Account-global.
		&s3BucketCollector{clients: clients},

		// Region-wide (outside any VPC).
		&dynamoTableCollector{clients: clients},
		&logGroupCollector{clients: clients},
		&lambdaFunctionCollector{clients: clients},

		// VPC-scoped resources.
		&ec2InstanceCollector{clients: clients},
		&rdsInstanceCollector{clients: clients},
		&rdsClusterCollector{clients: clients, vpcs: newDBSubnetGroupCache(clients)},
		&efsFileSystemCollector{clients: clients},
		&fsxFileSystemCollector{clients: clients},
		&redshiftClusterCollector{clients: clients},

		// VPC network components.
		&subnetCollector{clients: clients},
		&routeTableCollector{clients: clients},
		&internetGatewayCollector{clients: clients},
		&natGatewayCollector{clients: clients},
		&loadBalancerCollector{clients: clients},

		// VPC security.
		&securityGroupCollector{clients: clients},
	}

	return &InventoryRepositoryImpl{clients: clients, collectors: collectors}
}

func (r *InventoryRepositoryImpl) Collectors() []repository.Collector {
	return r.collectors
}

func (r *InventoryRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	client, err := r.clients.STS(ctx)
	if err != nil {
		return "", err
	}

	result, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error resolving caller identity: %w", err)
	}
	return aws.ToString(result.Account), nil
}

func (r *InventoryRepositoryImpl) GetEnabledRegions(ctx context.Context) ([]string, error) {
	client, err := r.clients.EC2(ctx, defaultRegion)
	if err != nil {
		return nil, err
	}

	output, err := client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err != nil {
		return nil, classify(fmt.Errorf("error listing enabled regions: %w", err))
	}

	regions := make([]string, 0, len(output.Regions))
	for _, region := range output.Regions {
		regions = append(regions, aws.ToString(region.RegionName))
	}
	sort.Strings(regions)
	return regions, nil
}

func (r *InventoryRepositoryImpl) ListVpcs(ctx context.Context, region string) ([]entity.VpcInfo, error) {
	client, err := r.clients.EC2(ctx, region)
	if err != nil {
		return nil, classify(err)
	}

	p := ec2.NewDescribeVpcsPaginator(client, &ec2.DescribeVpcsInput{})
	rawVpcs, err := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.Vpc, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.Vpcs, nil
	})
	if err != nil {
		return nil, classify(fmt.Errorf("error listing VPCs in %s: %w", region, err))
	}

	vpcs := make([]entity.VpcInfo, 0, len(rawVpcs))
	for _, vpc := range rawVpcs {
		vpcs = append(vpcs, entity.VpcInfo{
			VpcID:     aws.ToString(vpc.VpcId),
			CidrBlock: aws.ToString(vpc.CidrBlock),
			State:     string(vpc.State),
			IsDefault: aws.ToBool(vpc.IsDefault),
			Region:    region,
			Tags:      tagMap(vpc.Tags),
		})
	}
	return vpcs, nil
}

func tagMap(tags []ec2Types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

func vpcFilter(name, vpcID string) ec2Types.Filter {
	return ec2Types.Filter{Name: aws.String(name), Values: []string{vpcID}}
}
