package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// defaultRegion is used for account-global calls (STS, S3 listing) and as
// the fallback when a bucket reports no location constraint.
const defaultRegion = "us-east-1"

// ClientFactory loads the AWS config once through the SDK's default
// credential chain and hands out cached per-region service clients.
type ClientFactory struct {
	profile string

	mu          sync.Mutex
	baseCfg     *aws.Config
	clientCache map[string]interface{}
}

// NewClientFactory creates a factory for the given shared-config profile.
// An empty profile uses the default credential chain as-is.
func NewClientFactory(profile string) *ClientFactory {
	return &ClientFactory{
		profile:     profile,
		clientCache: make(map[string]interface{}),
	}
}

func (f *ClientFactory) awsConfig(ctx context.Context) (aws.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.baseCfg != nil {
		return *f.baseCfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if f.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(f.profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	f.baseCfg = &cfg
	return cfg, nil
}

func (f *ClientFactory) client(ctx context.Context, region, service string, build func(aws.Config) interface{}) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s", service, region)

	f.mu.Lock()
	if client, ok := f.clientCache[cacheKey]; ok {
		f.mu.Unlock()
		return client, nil
	}
	f.mu.Unlock()

	cfg, err := f.awsConfig(ctx)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	client := build(regionalCfg)

	f.mu.Lock()
	f.clientCache[cacheKey] = client
	f.mu.Unlock()

	return client, nil
}

func (f *ClientFactory) STS(ctx context.Context) (*sts.Client, error) {
	c, err := f.client(ctx, defaultRegion, "sts", func(cfg aws.Config) interface{} { return sts.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*sts.Client), nil
}

func (f *ClientFactory) EC2(ctx context.Context, region string) (*ec2.Client, error) {
	c, err := f.client(ctx, region, "ec2", func(cfg aws.Config) interface{} { return ec2.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*ec2.Client), nil
}

func (f *ClientFactory) RDS(ctx context.Context, region string) (*rds.Client, error) {
	c, err := f.client(ctx, region, "rds", func(cfg aws.Config) interface{} { return rds.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*rds.Client), nil
}

func (f *ClientFactory) EFS(ctx context.Context, region string) (*efs.Client, error) {
	c, err := f.client(ctx, region, "efs", func(cfg aws.Config) interface{} { return efs.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*efs.Client), nil
}

func (f *ClientFactory) FSx(ctx context.Context, region string) (*fsx.Client, error) {
	c, err := f.client(ctx, region, "fsx", func(cfg aws.Config) interface{} { return fsx.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*fsx.Client), nil
}

func (f *ClientFactory) Redshift(ctx context.Context, region string) (*redshift.Client, error) {
	c, err := f.client(ctx, region, "redshift", func(cfg aws.Config) interface{} { return redshift.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*redshift.Client), nil
}

func (f *ClientFactory) DynamoDB(ctx context.Context, region string) (*dynamodb.Client, error) {
	c, err := f.client(ctx, region, "dynamodb", func(cfg aws.Config) interface{} { return dynamodb.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*dynamodb.Client), nil
}

func (f *ClientFactory) S3(ctx context.Context) (*s3.Client, error) {
	c, err := f.client(ctx, defaultRegion, "s3", func(cfg aws.Config) interface{} { return s3.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*s3.Client), nil
}

func (f *ClientFactory) CloudWatch(ctx context.Context, region string) (*cloudwatch.Client, error) {
	c, err := f.client(ctx, region, "cloudwatch", func(cfg aws.Config) interface{} { return cloudwatch.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*cloudwatch.Client), nil
}

func (f *ClientFactory) CloudWatchLogs(ctx context.Context, region string) (*cloudwatchlogs.Client, error) {
	c, err := f.client(ctx, region, "cloudwatchlogs", func(cfg aws.Config) interface{} { return cloudwatchlogs.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*cloudwatchlogs.Client), nil
}

func (f *ClientFactory) Lambda(ctx context.Context, region string) (*lambda.Client, error) {
	c, err := f.client(ctx, region, "lambda", func(cfg aws.Config) interface{} { return lambda.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*lambda.Client), nil
}

func (f *ClientFactory) ELBv2(ctx context.Context, region string) (*elasticloadbalancingv2.Client, error) {
	c, err := f.client(ctx, region, "elbv2", func(cfg aws.Config) interface{} { return elasticloadbalancingv2.NewFromConfig(cfg) })
	if err != nil {
		return nil, err
	}
	return c.(*elasticloadbalancingv2.Client), nil
}
