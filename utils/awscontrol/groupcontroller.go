package awscontrol

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrGroupNotFound = errors.New("autoscaling group not found")

const NAME_TAG_KEY = "Name"

type AutoScalingAPI interface {
	DescribeAutoScalingGroups(
		ctx context.Context,
		params *autoscaling.DescribeAutoScalingGroupsInput,
		optFns ...func(*autoscaling.Options),
	) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
}

type EC2API interface {
	ec2.DescribeInstancesAPIClient
}

type GroupController struct {
	Logger      *zap.Logger
	AutoScaling AutoScalingAPI
	EC2         EC2API
}

func NewGroupController(logger *zap.Logger, cfg aws.Config) *GroupController {
	return &GroupController{
		Logger:      logger,
		AutoScaling: autoscaling.NewFromConfig(cfg),
		EC2:         ec2.NewFromConfig(cfg),
	}
}

// nameTagValues returns the values of every tag on the group whose key is
// exactly "Name".
func (c *GroupController) nameTagValues(ctx context.Context, groupName string) ([]string, error) {
	resp, err := c.AutoScaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{groupName},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to describe autoscaling group")
	}

	if len(resp.AutoScalingGroups) == 0 {
		return nil, errors.Wrapf(ErrGroupNotFound, "no group named '%s'", groupName)
	}

	var values []string
	for _, tag := range resp.AutoScalingGroups[0].Tags {
		if aws.ToString(tag.Key) == NAME_TAG_KEY {
			values = append(values, aws.ToString(tag.Value))
		}
	}

	return values, nil
}

func (c *GroupController) listTaggedInstances(ctx context.Context, nameValues []string) ([]types.Instance, error) {
	paginator := ec2.NewDescribeInstancesPaginator(c.EC2, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("tag:" + NAME_TAG_KEY),
				Values: nameValues,
			},
		},
	})

	var instances []types.Instance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to describe instances")
		}

		for _, reservation := range page.Reservations {
			instances = append(instances, reservation.Instances...)
		}
	}

	return instances, nil
}

// Resolve lists the private addresses of every running or pending instance
// that carries the same Name tag as the autoscaling group.
func (c *GroupController) Resolve(ctx context.Context, groupName string) (*GroupSnapshot, error) {
	c.Logger.Info("building list of ips from instances in autoscaling group",
		zap.String("group", groupName))

	nameValues, err := c.nameTagValues(ctx, groupName)
	if err != nil {
		return nil, err
	}

	snapshot := &GroupSnapshot{
		GroupName: groupName,
	}

	if len(nameValues) == 0 {
		c.Logger.Warn("autoscaling group has no Name tag, no instances can match",
			zap.String("group", groupName))
		return snapshot, nil
	}

	instances, err := c.listTaggedInstances(ctx, nameValues)
	if err != nil {
		return nil, err
	}

	for _, instance := range instances {
		instanceID := aws.ToString(instance.InstanceId)

		var stateName types.InstanceStateName
		if instance.State != nil {
			stateName = instance.State.Name
		}

		if !ParseInstanceState(stateName).IsMember() {
			c.Logger.Debug("skipping instance",
				zap.String("instance", instanceID),
				zap.String("state", string(stateName)))
			continue
		}

		addr := aws.ToString(instance.PrivateIpAddress)
		if addr == "" {
			c.Logger.Warn("skipping instance without a private address",
				zap.String("instance", instanceID))
			continue
		}

		c.Logger.Info("adding instance ip to the list",
			zap.String("ip", addr),
			zap.String("instance", instanceID))

		snapshot.Members = append(snapshot.Members, MemberAddress{
			Address:    addr,
			InstanceID: instanceID,
		})
	}

	snapshot.Members = lo.UniqBy(snapshot.Members, func(m MemberAddress) string {
		return m.Address
	})

	return snapshot, nil
}
