package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdsTypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeSubnetGroupCache(fetch func(ctx context.Context, region string) (map[string]string, error)) *dbSubnetGroupCache {
	cache := &dbSubnetGroupCache{regions: make(map[string]map[string]string)}
	cache.fetch = fetch
	return cache
}

func TestDBSubnetGroupCacheFetchesOncePerRegion(t *testing.T) {
	calls := map[string]int{}
	cache := newFakeSubnetGroupCache(func(ctx context.Context, region string) (map[string]string, error) {
		calls[region]++
		return map[string]string{"default": "vpc-" + region}, nil
	})

	for i := 0; i < 3; i++ {
		vpcID, err := cache.vpcFor(context.Background(), "us-east-1", "default")
		require.NoError(t, err)
		assert.Equal(t, "vpc-us-east-1", vpcID)
	}
	vpcID, err := cache.vpcFor(context.Background(), "eu-west-1", "default")
	require.NoError(t, err)
	assert.Equal(t, "vpc-eu-west-1", vpcID)

	assert.Equal(t, 1, calls["us-east-1"])
	assert.Equal(t, 1, calls["eu-west-1"])
}

func TestDBSubnetGroupCacheRetriesFailedFetch(t *testing.T) {
	calls := 0
	cache := newFakeSubnetGroupCache(func(ctx context.Context, region string) (map[string]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("RequestLimitExceeded")
		}
		return map[string]string{"default": "vpc-abc"}, nil
	})

	_, err := cache.vpcFor(context.Background(), "us-east-1", "default")
	require.Error(t, err)

	vpcID, err := cache.vpcFor(context.Background(), "us-east-1", "default")
	require.NoError(t, err)
	assert.Equal(t, "vpc-abc", vpcID)
	assert.Equal(t, 2, calls)
}

func TestFilterClustersMatchesSubnetGroupVpc(t *testing.T) {
	cache := newFakeSubnetGroupCache(func(ctx context.Context, region string) (map[string]string, error) {
		return map[string]string{"in-vpc": "vpc-abc", "other": "vpc-def"}, nil
	})
	collector := &rdsClusterCollector{vpcs: cache}
	scope := repository.Scope{Region: "us-east-1", VpcID: "vpc-abc"}
	clusters := []rdsTypes.DBCluster{
		{
			DBClusterIdentifier: aws.String("aurora-1"),
			Engine:              aws.String("aurora-postgresql"),
			DBSubnetGroup:       aws.String("in-vpc"),
			AllocatedStorage:    aws.Int32(100),
			DBClusterMembers: []rdsTypes.DBClusterMember{
				{DBInstanceIdentifier: aws.String("aurora-1-node-1")},
			},
		},
		{DBClusterIdentifier: aws.String("aurora-2"), DBSubnetGroup: aws.String("other")},
		{DBClusterIdentifier: aws.String("no-group")},
	}

	resources, err := collector.filterClusters(context.Background(), scope, clusters)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	cluster := resources[0].(entity.RDSCluster)
	assert.Equal(t, "aurora-1", cluster.ClusterID)
	assert.Equal(t, []string{"aurora-1-node-1"}, cluster.Members)
	assert.Equal(t, int64(100), cluster.AllocatedStorageGB)
}

func TestFilterClustersKeepsClustersDespiteLookupFailure(t *testing.T) {
	// The first lookup fails and is not cached; the clusters whose lookups
	// succeed stay in the result, and the failure surfaces as an error
	// instead of discarding everything fetched.
	calls := 0
	cache := newFakeSubnetGroupCache(func(ctx context.Context, region string) (map[string]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("Throttling")
		}
		return map[string]string{"group-a": "vpc-abc", "group-b": "vpc-abc"}, nil
	})
	collector := &rdsClusterCollector{vpcs: cache}
	scope := repository.Scope{Region: "us-east-1", VpcID: "vpc-abc"}
	clusters := []rdsTypes.DBCluster{
		{DBClusterIdentifier: aws.String("aurora-1"), DBSubnetGroup: aws.String("group-a")},
		{DBClusterIdentifier: aws.String("aurora-2"), DBSubnetGroup: aws.String("group-b")},
	}

	resources, err := collector.filterClusters(context.Background(), scope, clusters)
	require.Error(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "aurora-2", resources[0].ResourceID())
}
