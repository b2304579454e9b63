package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logsTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

// dynamoTableCollector lists table names and describes each one for its
// size and item count. A failed describe keeps the bare table name.
type dynamoTableCollector struct {
	clients *ClientFactory
}

func (c *dynamoTableCollector) Key() string                     { return entity.TypeDynamoDBTables }
func (c *dynamoTableCollector) ScopeKind() repository.ScopeKind { return repository.ScopeRegion }
func (c *dynamoTableCollector) Section() repository.Section     { return repository.SectionResources }

func (c *dynamoTableCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.DynamoDB(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := dynamodb.NewListTablesPaginator(client, &dynamodb.ListTablesInput{})
	names, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]string, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.TableNames, nil
	})

	resources := []entity.Resource{}
	var enrichErr error
	for _, name := range names {
		table := entity.DynamoDBTable{TableName: name, Region: scope.Region}

		output, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err != nil {
			enrichErr = fmt.Errorf("error describing table %s: %w", name, err)
		} else if output.Table != nil {
			table.TableStatus = string(output.Table.TableStatus)
			table.ItemCount = aws.ToInt64(output.Table.ItemCount)
			table.SizeBytes = aws.ToInt64(output.Table.TableSizeBytes)
			if output.Table.BillingModeSummary != nil {
				table.BillingMode = string(output.Table.BillingModeSummary.BillingMode)
			}
		}
		resources = append(resources, table)
	}

	return metricsUnavailable(collectorResult(resources, fetchErr), enrichErr)
}

type logGroupCollector struct {
	clients *ClientFactory
}

func (c *logGroupCollector) Key() string                     { return entity.TypeLogGroups }
func (c *logGroupCollector) ScopeKind() repository.ScopeKind { return repository.ScopeRegion }
func (c *logGroupCollector) Section() repository.Section     { return repository.SectionResources }

func (c *logGroupCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.CloudWatchLogs(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := cloudwatchlogs.NewDescribeLogGroupsPaginator(client, &cloudwatchlogs.DescribeLogGroupsInput{
		Limit: aws.Int32(50),
	})
	groups, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]logsTypes.LogGroup, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.LogGroups, nil
	})

	resources := []entity.Resource{}
	for _, group := range groups {
		resources = append(resources, entity.LogGroup{
			LogGroupName:  aws.ToString(group.LogGroupName),
			RetentionDays: int(aws.ToInt32(group.RetentionInDays)),
			StoredBytes:   aws.ToInt64(group.StoredBytes),
			Region:        scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

type lambdaFunctionCollector struct {
	clients *ClientFactory
}

func (c *lambdaFunctionCollector) Key() string                     { return entity.TypeLambdaFunctions }
func (c *lambdaFunctionCollector) ScopeKind() repository.ScopeKind { return repository.ScopeRegion }
func (c *lambdaFunctionCollector) Section() repository.Section     { return repository.SectionResources }

func (c *lambdaFunctionCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.Lambda(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})
	functions, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]lambdaTypes.FunctionConfiguration, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.Functions, nil
	})

	resources := []entity.Resource{}
	for _, function := range functions {
		resources = append(resources, entity.LambdaFunction{
			FunctionName:  aws.ToString(function.FunctionName),
			Runtime:       string(function.Runtime),
			MemoryMB:      int64(aws.ToInt32(function.MemorySize)),
			CodeSizeBytes: function.CodeSize,
			Region:        scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}
