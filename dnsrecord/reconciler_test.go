package dnsrecord_test

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/couchbaselabs/asgdns/dnsrecord"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRoute53 struct {
	existing     []types.ResourceRecordSet
	changeErr    error
	statuses     []types.ChangeStatus
	zones        []types.HostedZone
	listInputs   []*route53.ListResourceRecordSetsInput
	changeInputs []*route53.ChangeResourceRecordSetsInput
	getChanges   int
}

func (f *fakeRoute53) ListResourceRecordSets(
	ctx context.Context,
	params *route53.ListResourceRecordSetsInput,
	optFns ...func(*route53.Options),
) (*route53.ListResourceRecordSetsOutput, error) {
	f.listInputs = append(f.listInputs, params)
	return &route53.ListResourceRecordSetsOutput{ResourceRecordSets: f.existing}, nil
}

func (f *fakeRoute53) ChangeResourceRecordSets(
	ctx context.Context,
	params *route53.ChangeResourceRecordSetsInput,
	optFns ...func(*route53.Options),
) (*route53.ChangeResourceRecordSetsOutput, error) {
	f.changeInputs = append(f.changeInputs, params)
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	return &route53.ChangeResourceRecordSetsOutput{
		ChangeInfo: &types.ChangeInfo{
			Id:     aws.String("/change/C123"),
			Status: types.ChangeStatusPending,
		},
	}, nil
}

func (f *fakeRoute53) GetChange(
	ctx context.Context,
	params *route53.GetChangeInput,
	optFns ...func(*route53.Options),
) (*route53.GetChangeOutput, error) {
	status := types.ChangeStatusInsync
	if f.getChanges < len(f.statuses) {
		status = f.statuses[f.getChanges]
	}
	f.getChanges++
	return &route53.GetChangeOutput{
		ChangeInfo: &types.ChangeInfo{Id: params.Id, Status: status},
	}, nil
}

func (f *fakeRoute53) ListHostedZones(
	ctx context.Context,
	params *route53.ListHostedZonesInput,
	optFns ...func(*route53.Options),
) (*route53.ListHostedZonesOutput, error) {
	return &route53.ListHostedZonesOutput{HostedZones: f.zones}, nil
}

func recordValues(set *types.ResourceRecordSet) []string {
	return lo.Map(set.ResourceRecords, func(rr types.ResourceRecord, _ int) string {
		return aws.ToString(rr.Value)
	})
}

func TestReconcileUpsert(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRoute53{}
	rec := &dnsrecord.Reconciler{Logger: zap.NewNop(), Route53: fake}
	target := dnsrecord.NewRecordTarget("Z123", "web.example.com")

	res, err := rec.Reconcile(ctx, target, []string{"10.0.0.5", "10.0.0.6"})
	require.NoError(t, err)
	assert.Equal(t, types.ChangeActionUpsert, res.Action)
	assert.Equal(t, "/change/C123", res.ChangeID)

	assert.Empty(t, fake.listInputs)
	require.Len(t, fake.changeInputs, 1)
	input := fake.changeInputs[0]
	assert.Equal(t, "Z123", aws.ToString(input.HostedZoneId))
	require.Len(t, input.ChangeBatch.Changes, 1)

	change := input.ChangeBatch.Changes[0]
	assert.Equal(t, types.ChangeActionUpsert, change.Action)
	assert.Equal(t, "web.example.com", aws.ToString(change.ResourceRecordSet.Name))
	assert.Equal(t, types.RRTypeA, change.ResourceRecordSet.Type)
	assert.Equal(t, int64(300), aws.ToInt64(change.ResourceRecordSet.TTL))
	assert.ElementsMatch(t, []string{"10.0.0.5", "10.0.0.6"}, recordValues(change.ResourceRecordSet))
	assert.Equal(t, 0, fake.getChanges)
}

func TestReconcileUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRoute53{}
	rec := &dnsrecord.Reconciler{Logger: zap.NewNop(), Route53: fake}
	target := dnsrecord.NewRecordTarget("Z123", "web.example.com")

	for i := 0; i < 2; i++ {
		_, err := rec.Reconcile(ctx, target, []string{"10.0.0.5"})
		require.NoError(t, err)
	}

	require.Len(t, fake.changeInputs, 2)
	assert.Equal(t, fake.changeInputs[0].ChangeBatch, fake.changeInputs[1].ChangeBatch)
}

func TestReconcileDeleteUsesReadBackRecord(t *testing.T) {
	ctx := context.Background()
	existing := types.ResourceRecordSet{
		Name: aws.String("web.example.com."),
		Type: types.RRTypeA,
		TTL:  aws.Int64(60),
		ResourceRecords: []types.ResourceRecord{
			{Value: aws.String("10.0.0.5")},
		},
	}
	fake := &fakeRoute53{existing: []types.ResourceRecordSet{existing}}
	rec := &dnsrecord.Reconciler{Logger: zap.NewNop(), Route53: fake}
	target := dnsrecord.NewRecordTarget("Z123", "web.example.com")

	res, err := rec.Reconcile(ctx, target, nil)
	require.NoError(t, err)
	assert.Equal(t, types.ChangeActionDelete, res.Action)

	require.Len(t, fake.listInputs, 1)
	list := fake.listInputs[0]
	assert.Equal(t, "Z123", aws.ToString(list.HostedZoneId))
	assert.Equal(t, "web.example.com", aws.ToString(list.StartRecordName))
	assert.Equal(t, types.RRTypeA, list.StartRecordType)
	assert.Equal(t, int32(1), aws.ToInt32(list.MaxItems))

	require.Len(t, fake.changeInputs, 1)
	require.Len(t, fake.changeInputs[0].ChangeBatch.Changes, 1)
	change := fake.changeInputs[0].ChangeBatch.Changes[0]
	assert.Equal(t, types.ChangeActionDelete, change.Action)
	assert.Equal(t, existing, *change.ResourceRecordSet)
}

func TestReconcileDeleteWithoutRecord(t *testing.T) {
	ctx := context.Background()

	checkNotFound := func(existing []types.ResourceRecordSet) {
		fake := &fakeRoute53{existing: existing}
		rec := &dnsrecord.Reconciler{Logger: zap.NewNop(), Route53: fake}
		target := dnsrecord.NewRecordTarget("Z123", "web.example.com")

		_, err := rec.Reconcile(ctx, target, []string{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, dnsrecord.ErrRecordNotFound))
		assert.Contains(t, err.Error(), "web.example.com")
		assert.Contains(t, err.Error(), "Z123")
		assert.Empty(t, fake.changeInputs)
	}

	// nothing at all
	checkNotFound(nil)

	// the next record in the zone, not ours
	checkNotFound([]types.ResourceRecordSet{{
		Name: aws.String("zzz.example.com."),
		Type: types.RRTypeA,
	}})

	// a name that only contains ours
	checkNotFound([]types.ResourceRecordSet{{
		Name: aws.String("eb.example.com."),
		Type: types.RRTypeA,
	}})

	// right name, wrong type
	checkNotFound([]types.ResourceRecordSet{{
		Name: aws.String("web.example.com."),
		Type: types.RRTypeAaaa,
	}})
}

func TestReconcileChangeRejected(t *testing.T) {
	ctx := context.Background()
	rejected := errors.New("InvalidChangeBatch")
	fake := &fakeRoute53{changeErr: rejected}
	rec := &dnsrecord.Reconciler{Logger: zap.NewNop(), Route53: fake}

	_, err := rec.Reconcile(ctx, dnsrecord.NewRecordTarget("Z123", "web.example.com"), []string{"10.0.0.5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, rejected))
	assert.Len(t, fake.changeInputs, 1)
}

func TestReconcileWaitsForSync(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRoute53{statuses: []types.ChangeStatus{
		types.ChangeStatusPending,
		types.ChangeStatusPending,
		types.ChangeStatusInsync,
	}}
	rec := &dnsrecord.Reconciler{
		Logger:       zap.NewNop(),
		Route53:      fake,
		WaitForSync:  true,
		PollInterval: time.Millisecond,
	}

	_, err := rec.Reconcile(ctx, dnsrecord.NewRecordTarget("Z123", "web.example.com"), []string{"10.0.0.5"})
	require.NoError(t, err)
	assert.Equal(t, 3, fake.getChanges)
}

func TestReconcileWaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeRoute53{statuses: []types.ChangeStatus{types.ChangeStatusPending}}
	rec := &dnsrecord.Reconciler{
		Logger:       zap.NewNop(),
		Route53:      fake,
		WaitForSync:  true,
		PollInterval: time.Hour,
	}

	_, err := rec.Reconcile(ctx, dnsrecord.NewRecordTarget("Z123", "web.example.com"), []string{"10.0.0.5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFindHostedZoneID(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRoute53{zones: []types.HostedZone{
		{Id: aws.String("/hostedzone/ZAAA"), Name: aws.String("other.com.")},
		{Id: aws.String("/hostedzone/ZBBB"), Name: aws.String("example.com.")},
	}}
	rec := &dnsrecord.Reconciler{Logger: zap.NewNop(), Route53: fake}

	id, err := rec.FindHostedZoneID(ctx, "Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ZBBB", id)

	_, err = rec.FindHostedZoneID(ctx, "missing.com")
	require.Error(t, err)
}
