package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

// ec2InstanceCollector discovers the instances of one VPC and enriches
// each with the details of its attached EBS volumes. A failed volume
// lookup keeps the instance and its attachment stubs and records a
// metrics-unavailable condition.
type ec2InstanceCollector struct {
	clients *ClientFactory
}

func (c *ec2InstanceCollector) Key() string                     { return entity.TypeEC2Instances }
func (c *ec2InstanceCollector) ScopeKind() repository.ScopeKind { return repository.ScopeVpc }
func (c *ec2InstanceCollector) Section() repository.Section     { return repository.SectionResources }

func (c *ec2InstanceCollector) Collect(ctx context.Context, scope repository.Scope) repository.CollectorResult {
	client, err := c.clients.EC2(ctx, scope.Region)
	if err != nil {
		return failedResult(err)
	}

	p := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{
		Filters: []ec2Types.Filter{vpcFilter("vpc-id", scope.VpcID)},
	})
	reservations, fetchErr := fetchPages(ctx, p.HasMorePages, func(ctx context.Context) ([]ec2Types.Reservation, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		return page.Reservations, nil
	})

	resources := []entity.Resource{}
	var enrichErr error
	for _, reservation := range reservations {
		for _, instance := range reservation.Instances {
			var volumes []entity.EBSVolume
			if !scope.Excluded[entity.TypeEBSVolumes] {
				var err error
				volumes, err = c.attachedVolumes(ctx, client, instance)
				if err != nil {
					enrichErr = err
				}
			}
			state := ""
			if instance.State != nil {
				state = string(instance.State.Name)
			}
			resources = append(resources, entity.EC2Instance{
				InstanceID:   aws.ToString(instance.InstanceId),
				InstanceType: string(instance.InstanceType),
				State:        state,
				SubnetID:     aws.ToString(instance.SubnetId),
				Region:       scope.Region,
				Tags:         tagMap(instance.Tags),
				Volumes:      volumes,
			})
		}
	}

	return metricsUnavailable(collectorResult(resources, fetchErr), enrichErr)
}

// attachedVolumes resolves block device mappings into volume entities.
// When DescribeVolumes fails the attachments are returned with IDs only,
// so the instance still shows what is attached even without sizes.
func (c *ec2InstanceCollector) attachedVolumes(ctx context.Context, client *ec2.Client, instance ec2Types.Instance) ([]entity.EBSVolume, error) {
	volumes := []entity.EBSVolume{}
	volumeIDs := []string{}
	for _, mapping := range instance.BlockDeviceMappings {
		if mapping.Ebs == nil || mapping.Ebs.VolumeId == nil {
			continue
		}
		volumeIDs = append(volumeIDs, aws.ToString(mapping.Ebs.VolumeId))
		volumes = append(volumes, entity.EBSVolume{
			VolumeID:            aws.ToString(mapping.Ebs.VolumeId),
			DeviceName:          aws.ToString(mapping.DeviceName),
			DeleteOnTermination: aws.ToBool(mapping.Ebs.DeleteOnTermination),
		})
	}
	if len(volumeIDs) == 0 {
		return volumes, nil
	}

	output, err := client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{VolumeIds: volumeIDs})
	if err != nil {
		return volumes, fmt.Errorf("error describing volumes for %s: %w", aws.ToString(instance.InstanceId), err)
	}

	details := make(map[string]ec2Types.Volume, len(output.Volumes))
	for _, volume := range output.Volumes {
		details[aws.ToString(volume.VolumeId)] = volume
	}
	for i := range volumes {
		detail, ok := details[volumes[i].VolumeID]
		if !ok {
			continue
		}
		volumes[i].SizeGB = int64(aws.ToInt32(detail.Size))
		volumes[i].VolumeType = string(detail.VolumeType)
		volumes[i].IOPS = int64(aws.ToInt32(detail.Iops))
		volumes[i].Encrypted = aws.ToBool(detail.Encrypted)
		volumes[i].State = string(detail.State)
	}
	return volumes, nil
}
