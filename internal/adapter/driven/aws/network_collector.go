package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbTypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

type subnetCollector struct {
	clients *ClientFactory
}

func (c *subnetCollector) Key() string                     { return entity.TypeSubnets }
func (c *subnetCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *subnetCollector) Section() repository.Section     { return repository.SectionNetwork }

func (c *subnetCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EC2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := ec2.NewDescribeSubnetsPaginator(client, &ec2.DescribeSubnetsInput{
		Filters: []ec2Types.Filter{vpcFilter("vpc-id", scope.VpcID)},
	})
	subnets, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.Subnet, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.Subnets, nil
	})

	resources := []entity.Resource{}
	for _, subnet := range subnets {
		resources = append(resources, entity.Subnet{
			SubnetID:         aws.ToString(subnet.SubnetId),
			CidrBlock:        aws.ToString(subnet.CidrBlock),
			AvailabilityZone: aws.ToString(subnet.AvailabilityZone),
			AvailableIPs:     int64(aws.ToInt32(subnet.AvailableIpAddressCount)),
			State:            string(subnet.State),
			Region:           scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

type routeTableCollector struct {
	clients *ClientFactory
}

func (c *routeTableCollector) Key() string                     { return entity.TypeRouteTables }
func (c *routeTableCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *routeTableCollector) Section() repository.Section     { return repository.SectionNetwork }

func (c *routeTableCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EC2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := ec2.NewDescribeRouteTablesPaginator(client, &ec2.DescribeRouteTablesInput{
		Filters: []ec2Types.Filter{vpcFilter("vpc-id", scope.VpcID)},
	})
	tables, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.RouteTable, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.RouteTables, nil
	})

	resources := []entity.Resource{}
	for _, table := range tables {
		main := false
		for _, assoc := range table.Associations {
			if aws.ToBool(assoc.Main) {
				main = true
				break
			}
		}
		resources = append(resources, entity.RouteTable{
			RouteTableID: aws.ToString(table.RouteTableId),
			RouteCount:   len(table.Routes),
			Main:         main,
			Region:       scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

type internetGatewayCollector struct {
	clients *ClientFactory
}

func (c *internetGatewayCollector) Key() string                     { return entity.TypeInternetGateways }
func (c *internetGatewayCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *internetGatewayCollector) Section() repository.Section     { return repository.SectionNetwork }

func (c *internetGatewayCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EC2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := ec2.NewDescribeInternetGatewaysPaginator(client, &ec2.DescribeInternetGatewaysInput{
		Filters: []ec2Types.Filter{vpcFilter("attachment.vpc-id", scope.VpcID)},
	})
	gateways, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.InternetGateway, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.InternetGateways, nil
	})

	resources := []entity.Resource{}
	for _, gateway := range gateways {
		state := ""
		for _, attachment := range gateway.Attachments {
			if aws.ToString(attachment.VpcId) == scope.VpcID {
				state = string(attachment.State)
				break
			}
		}
		resources = append(resources, entity.InternetGateway{
			GatewayID: aws.ToString(gateway.InternetGatewayId),
			State:     state,
			Region:    scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

type natGatewayCollector struct {
	clients *ClientFactory
}

func (c *natGatewayCollector) Key() string                     { return entity.TypeNatGateways }
func (c *natGatewayCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *natGatewayCollector) Section() repository.Section     { return repository.SectionNetwork }

func (c *natGatewayCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EC2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := ec2.NewDescribeNatGatewaysPaginator(client, &ec2.DescribeNatGatewaysInput{
		Filter: []ec2Types.Filter{vpcFilter("vpc-id", scope.VpcID)},
	})
	gateways, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.NatGateway, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.NatGateways, nil
	})

	resources := []entity.Resource{}
	for _, gateway := range gateways {
		resources = append(resources, entity.NatGateway{
			GatewayID: aws.ToString(gateway.NatGatewayId),
			State:     string(gateway.State),
			SubnetID:  aws.ToString(gateway.SubnetId),
			Region:    scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

// loadBalancerCollector lists ELBv2 load balancers; the API has no VPC
// filter so the match happens in code.
type loadBalancerCollector struct {
	clients *ClientFactory
}

func (c *loadBalancerCollector) Key() string                     { return entity.TypeLoadBalancers }
func (c *loadBalancerCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *loadBalancerCollector) Section() repository.Section     { return repository.SectionNetwork }

func (c *loadBalancerCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.ELBv2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(client, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	balancers, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]elbTypes.LoadBalancer, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.LoadBalancers, nil
	})

	resources := []entity.Resource{}
	for _, balancer := range balancers {
		if aws.ToString(balancer.VpcId) != scope.VpcID {
			continue
		}
		state := ""
		if balancer.State != nil {
			state = string(balancer.State.Code)
		}
		resources = append(resources, entity.LoadBalancer{
			Name:   aws.ToString(balancer.LoadBalancerName),
			Type:   string(balancer.Type),
			Scheme: string(balancer.Scheme),
			State:  state,
			Region: scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}

type securityGroupCollector struct {
	clients *ClientFactory
}

func (c *securityGroupCollector) Key() string                     { return entity.TypeSecurityGroups }
func (c *securityGroupCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *securityGroupCollector) Section() repository.Section     { return repository.SectionSecurity }

func (c *securityGroupCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EC2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := ec2.NewDescribeSecurityGroupsPaginator(client, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2Types.Filter{vpcFilter("vpc-id", scope.VpcID)},
	})
	groups, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.SecurityGroup, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.SecurityGroups, nil
	})

	resources := []entity.Resource{}
	for _, group := range groups {
		resources = append(resources, entity.SecurityGroup{
			GroupID:      aws.ToString(group.GroupId),
			GroupName:    aws.ToString(group.GroupName),
			Description:  aws.ToString(group.Description),
			IngressRules: len(group.IpPermissions),
			EgressRules:  len(group.IpPermissionsEgress),
			Region:       scope.Region,
		})
	}
	return collectorResult(resources, fetchErr)
}
