package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	efsTypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	fsxTypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

// s3BucketCollector lists every bucket in the account, resolves each
// bucket's home region and sizes it from CloudWatch storage metrics.
// Metric failures keep the bucket and downgrade the run to partial.
type s3BucketCollector struct {
	clients *ClientFactory
}

func (c *s3BucketCollector) Key() string                     { return entity.TypeS3Buckets }
func (c *s3BucketCollector) ScopeKind() repository.ScopeKind { return repository.ScopeGlobal }
func (c *s3BucketCollector) Section() repository.Section     { return repository.SectionResources }

func (c *s3BucketCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.S3(ctx)
	if err != nil {
		return failedResult(err)
	}

	buckets, fetchErr := listAllBuckets(ctx, client)

	resources := []entity.Resource{}
	var enrichErr error
	for _, bucket := range buckets {
		name := aws.ToString(bucket.Name)

		region, err := c.bucketRegion(ctx, client, name)
		if err != nil {
			enrichErr = err
			region = defaultRegion
		}

		entry := entity.S3Bucket{
			Name:      name,
			Region:    region,
			CreatedAt: bucket.CreationDate,
		}
		sizeBytes, objectCount, err := c.bucketMetrics(ctx, region, name)
		if err != nil {
			enrichErr = err
		} else {
			entry.SizeBytes = sizeBytes
			entry.ObjectCount = objectCount
		}
		resources = append(resources, entry)
	}

	return metricsUnavailable(collectorResult(resources, fetchErr), enrichErr)
}

// listAllBuckets walks the bucket listing's continuation tokens like every
// other discovery call, keeping the fetched prefix on a mid-listing failure.
func listAllBuckets(ctx context.Context, client s3.ListBucketsAPIClient) ([]s3Types.Bucket, error) {
	p := s3.NewListBucketsPaginator(client, &s3.ListBucketsInput{})
	return fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]s3Types.Bucket, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.Buckets, nil
	})
}

func (c *s3BucketCollector) bucketRegion(ctx context.Context, client *s3.Client, name string) (string, error) {
	output, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(name)})
	if err != nil {
		return "", fmt.Errorf("error locating bucket %s: %w", name, err)
	}
	// An empty constraint means the legacy us-east-1 location.
	if output.LocationConstraint == "" {
		return defaultRegion, nil
	}
	return string(output.LocationConstraint), nil
}

// bucketMetrics reads the daily storage metrics CloudWatch publishes for
// every bucket. Nil values mean the bucket is new enough that no daily
// datapoint exists yet, which is not an error.
func (c *s3BucketCollector) bucketMetrics(ctx context.Context, region, name string) (*int64, *int64, error) {
	client, err := c.clients.CloudWatch(ctx, region)
	if err != nil {
		return nil, nil, err
	}

	sizeBytes, err := latestDatapoint(ctx, client, name, "BucketSizeBytes", "StandardStorage")
	if err != nil {
		return nil, nil, fmt.Errorf("error reading size metric for bucket %s: %w", name, err)
	}
	objectCount, err := latestDatapoint(ctx, client, name, "NumberOfObjects", "AllStorageTypes")
	if err != nil {
		return nil, nil, fmt.Errorf("error reading object metric for bucket %s: %w", name, err)
	}
	return sizeBytes, objectCount, nil
}

func latestDatapoint(ctx context.Context, client *cloudwatch.Client, bucket, metric, storageType string) (*int64, error) {
	now := time.Now()
	output, err := client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/S3"),
		MetricName: aws.String(metric),
		Dimensions: []cwTypes.Dimension{
			{Name: aws.String("BucketName"), Value: aws.String(bucket)},
			{Name: aws.String("StorageType"), Value: aws.String(storageType)},
		},
		StartTime:  aws.Time(now.Add(-48 * time.Hour)),
		EndTime:    aws.Time(now),
		Period:     aws.Int32(86400),
		Statistics: []cwTypes.Statistic{cwTypes.StatisticAverage},
	})
	if err != nil {
		return nil, err
	}
	if len(output.Datapoints) == 0 {
		return nil, nil
	}

	value := int64(aws.ToFloat64(newestDatapoint(output.Datapoints).Average))
	return &value, nil
}

// newestDatapoint picks the datapoint with the latest timestamp; points
// without a timestamp never win over timestamped ones.
func newestDatapoint(points []cwTypes.Datapoint) cwTypes.Datapoint {
	latest := points[0]
	for _, point := range points[1:] {
		if point.Timestamp == nil {
			continue
		}
		if latest.Timestamp == nil || point.Timestamp.After(*latest.Timestamp) {
			latest = point
		}
	}
	return latest
}

// efsFileSystemCollector attributes each filesystem to a VPC through its
// mount targets.
type efsFileSystemCollector struct {
	clients *ClientFactory
}

func (c *efsFileSystemCollector) Key() string                     { return entity.TypeEFSFileSystems }
func (c *efsFileSystemCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *efsFileSystemCollector) Section() repository.Section     { return repository.SectionResources }

func (c *efsFileSystemCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EFS(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := efs.NewDescribeFileSystemsPaginator(client, &efs.DescribeFileSystemsInput{})
	fileSystems, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]efsTypes.FileSystemDescription, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.FileSystems, nil
	})

	resources := []entity.Resource{}
	var enrichErr error
	for _, fs := range fileSystems {
		inVpc, err := c.mountedInVpc(ctx, client, aws.ToString(fs.FileSystemId), scope.VpcID)
		if err != nil {
			enrichErr = err
			continue
		}
		if !inVpc {
			continue
		}
		sizeBytes := int64(0)
		if fs.SizeInBytes != nil {
			sizeBytes = fs.SizeInBytes.Value
		}
		resources = append(resources, entity.EFSFileSystem{
			FileSystemID:    aws.ToString(fs.FileSystemId),
			Name:            aws.ToString(fs.Name),
			LifeCycleState:  string(fs.LifeCycleState),
			PerformanceMode: string(fs.PerformanceMode),
			Encrypted:       aws.ToBool(fs.Encrypted),
			SizeBytes:       sizeBytes,
			Region:          scope.Region,
		})
	}

	return metricsUnavailable(collectorResult(resources, fetchErr), enrichErr)
}

func (c *efsFileSystemCollector) mountedInVpc(ctx context.Context, client *efs.Client, fileSystemID, vpcID string) (bool, error) {
	output, err := client.DescribeMountTargets(ctx, &efs.DescribeMountTargetsInput{
		FileSystemId: aws.String(fileSystemID),
	})
	if err != nil {
		return false, fmt.Errorf("error listing mount targets for %s: %w", fileSystemID, err)
	}
	for _, target := range output.MountTargets {
		if aws.ToString(target.VpcId) == vpcID {
			return true, nil
		}
	}
	return false, nil
}

type fsxFileSystemCollector struct {
	clients *ClientFactory
}

func (c *fsxFileSystemCollector) Key() string                     { return entity.TypeFSxFileSystems }
func (c *fsxFileSystemCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *fsxFileSystemCollector) Section() repository.Section     { return repository.SectionResources }

func (c *fsxFileSystemCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.FSx(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := fsx.NewDescribeFileSystemsPaginator(client, &fsx.DescribeFileSystemsInput{})
	fileSystems, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]fsxTypes.FileSystem, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.FileSystems, nil
	})

	resources := []entity.Resource{}
	for _, fs := range fileSystems {
		if aws.ToString(fs.VpcId) != scope.VpcID {
			continue
		}
		resources = append(resources, entity.FSxFileSystem{
			FileSystemID:      aws.ToString(fs.FileSystemId),
			FileSystemType:    string(fs.FileSystemType),
			Lifecycle:         string(fs.Lifecycle),
			StorageCapacityGB: int64(aws.ToInt32(fs.StorageCapacity)),
			SubnetIDs:         fs.SubnetIds,
			Region:            scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}
