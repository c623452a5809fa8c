package dnsrecord

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrRecordNotFound = errors.New("record set not found")

const DEFAULT_POLL_INTERVAL = 5 * time.Second

type Route53API interface {
	ListResourceRecordSets(
		ctx context.Context,
		params *route53.ListResourceRecordSetsInput,
		optFns ...func(*route53.Options),
	) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(
		ctx context.Context,
		params *route53.ChangeResourceRecordSetsInput,
		optFns ...func(*route53.Options),
	) (*route53.ChangeResourceRecordSetsOutput, error)
	GetChange(
		ctx context.Context,
		params *route53.GetChangeInput,
		optFns ...func(*route53.Options),
	) (*route53.GetChangeOutput, error)
	ListHostedZones(
		ctx context.Context,
		params *route53.ListHostedZonesInput,
		optFns ...func(*route53.Options),
	) (*route53.ListHostedZonesOutput, error)
}

type Reconciler struct {
	Logger       *zap.Logger
	Route53      Route53API
	WaitForSync  bool
	PollInterval time.Duration
}

func NewReconciler(logger *zap.Logger, cfg aws.Config, waitForSync bool) *Reconciler {
	return &Reconciler{
		Logger:       logger,
		Route53:      route53.NewFromConfig(cfg),
		WaitForSync:  waitForSync,
		PollInterval: DEFAULT_POLL_INTERVAL,
	}
}

type Result struct {
	Action    types.ChangeAction
	ChangeID  string
	Addresses []string
}

// Reconcile makes the target record hold exactly the given addresses, or
// removes it when there are none.
func (r *Reconciler) Reconcile(ctx context.Context, target RecordTarget, addresses []string) (*Result, error) {
	var change types.Change
	if len(addresses) > 0 {
		change = r.upsertChange(target, addresses)
	} else {
		r.Logger.Info("no instance in the autoscaling group, removing record",
			zap.String("domain", target.DomainName),
			zap.String("zone", target.HostedZoneID))

		existing, err := r.findRecordSet(ctx, target)
		if err != nil {
			return nil, err
		}

		change = types.Change{
			Action:            types.ChangeActionDelete,
			ResourceRecordSet: existing,
		}
	}

	resp, err := r.Route53.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(target.HostedZoneID),
		ChangeBatch: &types.ChangeBatch{
			Changes: []types.Change{change},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to change record set for domain %s on hosted zone %s",
			target.DomainName, target.HostedZoneID)
	}

	result := &Result{
		Action:    change.Action,
		Addresses: addresses,
	}
	if resp.ChangeInfo != nil {
		result.ChangeID = aws.ToString(resp.ChangeInfo.Id)
	}

	r.Logger.Info("record updated",
		zap.String("action", string(change.Action)),
		zap.String("domain", target.DomainName),
		zap.String("zone", target.HostedZoneID),
		zap.Strings("ips", addresses))

	if r.WaitForSync && result.ChangeID != "" {
		err := r.waitForChangeId(ctx, result.ChangeID)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (r *Reconciler) upsertChange(target RecordTarget, addresses []string) types.Change {
	return types.Change{
		Action: types.ChangeActionUpsert,
		ResourceRecordSet: &types.ResourceRecordSet{
			Name: aws.String(target.DomainName),
			Type: target.Type,
			TTL:  aws.Int64(target.TTL),
			ResourceRecords: lo.Map(addresses, func(addr string, _ int) types.ResourceRecord {
				return types.ResourceRecord{Value: aws.String(addr)}
			}),
		},
	}
}

// findRecordSet reads back the record set currently published for the
// target so a delete can be submitted with its exact contents.
func (r *Reconciler) findRecordSet(ctx context.Context, target RecordTarget) (*types.ResourceRecordSet, error) {
	resp, err := r.Route53.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(target.HostedZoneID),
		StartRecordName: aws.String(target.DomainName),
		StartRecordType: target.Type,
		MaxItems:        aws.Int32(1),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list resource record sets")
	}

	if len(resp.ResourceRecordSets) == 0 {
		return nil, errors.Wrapf(ErrRecordNotFound, "invalid record set for domain %s on hosted zone %s",
			target.DomainName, target.HostedZoneID)
	}

	existing := resp.ResourceRecordSets[0]
	if existing.Type != target.Type || !NamesEqual(aws.ToString(existing.Name), target.DomainName) {
		return nil, errors.Wrapf(ErrRecordNotFound, "invalid record set for domain %s on hosted zone %s (found %s %s)",
			target.DomainName, target.HostedZoneID, aws.ToString(existing.Name), existing.Type)
	}

	return &existing, nil
}

func (r *Reconciler) waitForChangeId(ctx context.Context, changeId string) error {
	pollInterval := r.PollInterval
	if pollInterval <= 0 {
		pollInterval = DEFAULT_POLL_INTERVAL
	}

	for {
		change, err := r.Route53.GetChange(ctx, &route53.GetChangeInput{
			Id: aws.String(changeId),
		})
		if err != nil {
			return errors.Wrap(err, "failed to get change status")
		}

		changeStatus := change.ChangeInfo.Status

		r.Logger.Info("waiting for dns records to be in sync...",
			zap.String("current", string(changeStatus)))

		if changeStatus == types.ChangeStatusInsync {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "gave up waiting for dns change")
		case <-time.After(pollInterval):
		}
	}
}

// FindHostedZoneID looks up the id of the public or private zone with the
// given name.
func (r *Reconciler) FindHostedZoneID(ctx context.Context, zoneName string) (string, error) {
	paginator := route53.NewListHostedZonesPaginator(r.Route53, &route53.ListHostedZonesInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", errors.Wrap(err, "failed to list hosted zones")
		}

		for _, zone := range page.HostedZones {
			if NamesEqual(aws.ToString(zone.Name), zoneName) {
				return strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/"), nil
			}
		}
	}

	return "", errors.Errorf("hosted zone not found for name: %s", zoneName)
}
