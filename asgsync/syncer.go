package asgsync

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/couchbaselabs/asgdns/asgevent"
	"github.com/couchbaselabs/asgdns/dnsrecord"
	"github.com/couchbaselabs/asgdns/utils/awscontrol"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	RESULT_OK = 0
)

type MembershipResolver interface {
	Resolve(ctx context.Context, groupName string) (*awscontrol.GroupSnapshot, error)
}

type RecordReconciler interface {
	Reconcile(ctx context.Context, target dnsrecord.RecordTarget, addresses []string) (*dnsrecord.Result, error)
}

type Syncer struct {
	logger  *zap.Logger
	groups  MembershipResolver
	records RecordReconciler
	target  dnsrecord.RecordTarget
}

type SyncerOptions struct {
	Logger  *zap.Logger
	Groups  MembershipResolver
	Records RecordReconciler
	Target  dnsrecord.RecordTarget
}

func NewSyncer(opts *SyncerOptions) (*Syncer, error) {
	if opts.Logger == nil {
		return nil, errors.New("a logger is required")
	}
	if opts.Groups == nil || opts.Records == nil {
		return nil, errors.New("both a membership resolver and a record reconciler are required")
	}
	if opts.Target.HostedZoneID == "" || opts.Target.DomainName == "" {
		return nil, errors.New("the record target must name a hosted zone and a domain")
	}

	return &Syncer{
		logger:  opts.Logger,
		groups:  opts.Groups,
		records: opts.Records,
		target:  opts.Target,
	}, nil
}

// Handle is the lambda entry point. It returns RESULT_OK both when the record
// was updated and when the event was deliberately ignored.
func (s *Syncer) Handle(ctx context.Context, envelope events.SNSEvent) (int, error) {
	s.logger.Info("autoscaling event received", zap.Any("event", envelope))

	evt, err := asgevent.Parse(envelope)
	if err != nil {
		return 0, err
	}

	if !evt.Actionable() {
		s.logger.Info("ignoring event",
			zap.String("event", evt.Raw.Event),
			zap.String("group", evt.GroupName))
		return RESULT_OK, nil
	}

	s.logger.Info("starting record update",
		zap.Stringer("type", evt.Type),
		zap.String("group", evt.GroupName))

	_, err = s.Sync(ctx, evt.GroupName)
	if err != nil {
		return 0, err
	}

	return RESULT_OK, nil
}

// Sync recomputes the membership of a group and pushes it to the record.
func (s *Syncer) Sync(ctx context.Context, groupName string) (*dnsrecord.Result, error) {
	snapshot, err := s.groups.Resolve(ctx, groupName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve membership of group %s", groupName)
	}

	res, err := s.records.Reconcile(ctx, s.target, snapshot.Addresses())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reconcile record for group %s", groupName)
	}

	return res, nil
}

func (s *Syncer) Target() dnsrecord.RecordTarget {
	return s.target
}
