package awscontrol

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type IdentityDocumentAPI interface {
	GetInstanceIdentityDocument(
		ctx context.Context,
		params *imds.GetInstanceIdentityDocumentInput,
		optFns ...func(*imds.Options),
	) (*imds.GetInstanceIdentityDocumentOutput, error)
}

// LocalInstanceController identifies the ec2 instance we are running on, if
// any. The CLI uses it to pick a default region.
type LocalInstanceController struct {
	Logger  *zap.Logger
	Client  IdentityDocumentAPI
	Timeout time.Duration
}

type LocalInstanceInfo struct {
	Region     string
	InstanceID string
	PrivateIP  string
}

func (c *LocalInstanceController) Identify(ctx context.Context) (*LocalInstanceInfo, error) {
	client := c.Client
	if client == nil {
		client = imds.New(imds.Options{})
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	instanceIdentity, err := client.GetInstanceIdentityDocument(ctx, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.New("must be running within an ec2 instance")
		}

		return nil, errors.Wrap(err, "failed to load instance identity data")
	}

	c.Logger.Debug("instance identity loaded",
		zap.String("region", instanceIdentity.Region),
		zap.String("instance", instanceIdentity.InstanceID))

	return &LocalInstanceInfo{
		Region:     instanceIdentity.Region,
		InstanceID: instanceIdentity.InstanceID,
		PrivateIP:  instanceIdentity.PrivateIP,
	}, nil
}
