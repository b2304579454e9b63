package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdsTypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	redshiftTypes "github.com/aws/aws-sdk-go-v2/service/redshift/types"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

type rdsInstanceCollector struct {
	clients *ClientFactory
}

func (c *rdsInstanceCollector) Key() string                     { return entity.TypeRDSInstances }
func (c *rdsInstanceCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *rdsInstanceCollector) Section() repository.Section     { return repository.SectionResources }

func (c *rdsInstanceCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.RDS(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	// DescribeDBInstances offers no VPC filter; each instance exposes its
	// VPC through the subnet group it was launched into.
	p := rds.NewDescribeDBInstancesPaginator(client, &rds.DescribeDBInstancesInput{})
	instances, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]rdsTypes.DBInstance, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.DBInstances, nil
	})

	resources := []entity.Resource{}
	for _, db := range instances {
		if db.DBSubnetGroup == nil || aws.ToString(db.DBSubnetGroup.VpcId) != scope.VpcID {
			continue
		}
		resources = append(resources, entity.RDSInstance{
			DBInstanceID:       aws.ToString(db.DBInstanceIdentifier),
			Engine:             aws.ToString(db.Engine),
			InstanceClass:      aws.ToString(db.DBInstanceClass),
			MultiAZ:            aws.ToBool(db.MultiAZ),
			AllocatedStorageGB: int64(aws.ToInt32(db.AllocatedStorage)),
			Region:             scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

// dbSubnetGroupCache memoizes the subnet-group-name to VPC mapping per
// region. Clusters reference their subnet group by name only, so placing
// a cluster in a VPC needs this extra lookup; one listing per region
// serves every VPC in it. A failed listing is not cached, so the next
// scope retries.
type dbSubnetGroupCache struct {
	fetch func(ctx context.Context, region string) (map[string]string, error)

	mu      sync.Mutex
	regions map[string]map[string]string
}

func newDBSubnetGroupCache(clients *ClientFactory) *dbSubnetGroupCache {
	cache := &dbSubnetGroupCache{
		regions: make(map[string]map[string]string),
	}
	cache.fetch = func(ctx context.Context, region string) (map[string]string, error) {
		return fetchDBSubnetGroups(ctx, clients, region)
	}
	return cache
}

func (s *dbSubnetGroupCache) vpcFor(ctx context.Context, region, groupName string) (string, error) {
	s.mu.Lock()
	groups, ok := s.regions[region]
	s.mu.Unlock()
	if !ok {
		var err error
		groups, err = s.fetch(ctx, region)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.regions[region] = groups
		s.mu.Unlock()
	}
	return groups[groupName], nil
}

func fetchDBSubnetGroups(ctx context.Context, clients *ClientFactory, region string) (map[string]string, error) {
	client, err := clients.RDS(ctx, region)
	if err != nil {
		return nil, err
	}

	p := rds.NewDescribeDBSubnetGroupsPaginator(client, &rds.DescribeDBSubnetGroupsInput{})
	groups, err := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]rdsTypes.DBSubnetGroup, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.DBSubnetGroups, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing DB subnet groups in %s: %w", region, err)
	}

	mapping := make(map[string]string, len(groups))
	for _, group := range groups {
		mapping[aws.ToString(group.DBSubnetGroupName)] = aws.ToString(group.VpcId)
	}
	return mapping, nil
}

type rdsClusterCollector struct {
	clients *ClientFactory
	vpcs    *dbSubnetGroupCache
}

func (c *rdsClusterCollector) Key() string                     { return entity.TypeRDSClusters }
func (c *rdsClusterCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *rdsClusterCollector) Section() repository.Section     { return repository.SectionResources }

func (c *rdsClusterCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.RDS(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := rds.NewDescribeDBClustersPaginator(client, &rds.DescribeDBClustersInput{})
	clusters, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]rdsTypes.DBCluster, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.DBClusters, nil
	})

	resources, lookupErr := c.filterClusters(ctx, scope, clusters)
	return metricsUnavailable(collectorResult(resources, fetchErr), lookupErr)
}

// filterClusters keeps the clusters whose subnet group resolves to the
// scope's VPC. A failed subnet-group lookup keeps the clusters fetched so
// far and is reported as a lookup error instead of failing the collector.
func (c *rdsClusterCollector) filterClusters(ctx context.Context, scope repository.Scope, clusters []rdsTypes.DBCluster) ([]entity.Resource, error) {
	resources := []entity.Resource{}
	var lookupErr error
	for _, cluster := range clusters {
		groupName := aws.ToString(cluster.DBSubnetGroup)
		if groupName == "" {
			continue
		}
		vpcID, err := c.vpcs.vpcFor(ctx, scope.Region, groupName)
		if err != nil {
			lookupErr = err
			continue
		}
		if vpcID != scope.VpcID {
			continue
		}
		members := make([]string, 0, len(cluster.DBClusterMembers))
		for _, member := range cluster.DBClusterMembers {
			members = append(members, aws.ToString(member.DBInstanceIdentifier))
		}
		resources = append(resources, entity.RDSCluster{
			ClusterID:          aws.ToString(cluster.DBClusterIdentifier),
			Engine:             aws.ToString(cluster.Engine),
			Members:            members,
			AllocatedStorageGB: int64(aws.ToInt32(cluster.AllocatedStorage)),
			Region:             scope.Region,
		})
	}
	return resources, lookupErr
}

type redshiftClusterCollector struct {
	clients *ClientFactory
}

func (c *redshiftClusterCollector) Key() string                     { return entity.TypeRedshiftClusters }
func (c *redshiftClusterCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *redshiftClusterCollector) Section() repository.Section     { return repository.SectionResources }

func (c *redshiftClusterCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.Redshift(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := redshift.NewDescribeClustersPaginator(client, &redshift.DescribeClustersInput{})
	clusters, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]redshiftTypes.Cluster, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.Clusters, nil
	})

	resources := []entity.Resource{}
	for _, cluster := range clusters {
		if aws.ToString(cluster.VpcId) != scope.VpcID {
			continue
		}
		resources = append(resources, entity.RedshiftCluster{
			ClusterID:     aws.ToString(cluster.ClusterIdentifier),
			NodeType:      aws.ToString(cluster.NodeType),
			NodeCount:     int64(aws.ToInt32(cluster.NumberOfNodes)),
			ClusterStatus: aws.ToString(cluster.ClusterStatus),
			SizeBytes:     aws.ToInt64(cluster.TotalStorageCapacityInMegaBytes) * 1024 * 1024,
			Region:        scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}
