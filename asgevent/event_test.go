package asgevent_test

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/couchbaselabs/asgdns/asgevent"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeOf(messages ...string) events.SNSEvent {
	var envelope events.SNSEvent
	for _, msg := range messages {
		envelope.Records = append(envelope.Records, events.SNSEventRecord{
			SNS: events.SNSEntity{Message: msg},
		})
	}
	return envelope
}

func TestParseEventTypes(t *testing.T) {
	checkType := func(event string, expected asgevent.EventType, actionable bool) {
		evt, err := asgevent.Parse(envelopeOf(`{"Event":"` + event + `","AutoScalingGroupName":"asg-1"}`))
		require.NoError(t, err)
		assert.Equal(t, expected, evt.Type)
		assert.Equal(t, actionable, evt.Actionable())
		assert.Equal(t, "asg-1", evt.GroupName)
	}

	checkType("autoscaling:EC2_INSTANCE_LAUNCH", asgevent.EventTypeLaunch, true)
	checkType("autoscaling:EC2_INSTANCE_TERMINATE", asgevent.EventTypeTerminate, true)
	checkType("autoscaling:EC2_INSTANCE_ROLLBACK", asgevent.EventTypeOther, false)
	checkType("autoscaling:EC2_INSTANCE_LAUNCH_ERROR", asgevent.EventTypeOther, false)
	checkType("autoscaling:TEST_NOTIFICATION", asgevent.EventTypeOther, false)
}

func TestParseKeepsRawMessage(t *testing.T) {
	evt, err := asgevent.Parse(envelopeOf(`{
		"Event": "autoscaling:EC2_INSTANCE_TERMINATE",
		"AutoScalingGroupName": "web",
		"EC2InstanceId": "i-0123",
		"AccountId": "123456789012",
		"Cause": "scale in"
	}`))
	require.NoError(t, err)
	require.NotNil(t, evt.Raw)
	assert.Equal(t, "i-0123", evt.Raw.EC2InstanceID)
	assert.Equal(t, "123456789012", evt.Raw.AccountID)
	assert.Equal(t, "scale in", evt.Raw.Cause)
}

func TestParseOnlyConsumesFirstRecord(t *testing.T) {
	evt, err := asgevent.Parse(envelopeOf(
		`{"Event":"autoscaling:EC2_INSTANCE_LAUNCH","AutoScalingGroupName":"first"}`,
		`{"Event":"autoscaling:EC2_INSTANCE_LAUNCH","AutoScalingGroupName":"second"}`,
	))
	require.NoError(t, err)
	assert.Equal(t, "first", evt.GroupName)
}

func TestParseMalformed(t *testing.T) {
	checkMalformed := func(envelope events.SNSEvent) {
		_, err := asgevent.Parse(envelope)
		require.Error(t, err)
		require.True(t, errors.Is(err, asgevent.ErrMalformedEvent), "unexpected error: %s", err)
	}

	checkMalformed(events.SNSEvent{})
	checkMalformed(envelopeOf(""))
	checkMalformed(envelopeOf("not json"))
	checkMalformed(envelopeOf(`{"AutoScalingGroupName":"asg-1"}`))
	checkMalformed(envelopeOf(`{"Event":"autoscaling:EC2_INSTANCE_LAUNCH"}`))
	checkMalformed(envelopeOf(`{"Event":"autoscaling:EC2_INSTANCE_TERMINATE","AutoScalingGroupName":""}`))
}

func TestParseIgnoredEventNeedsNoGroup(t *testing.T) {
	evt, err := asgevent.Parse(envelopeOf(`{"Event":"autoscaling:TEST_NOTIFICATION"}`))
	require.NoError(t, err)
	assert.False(t, evt.Actionable())
	assert.Equal(t, "", evt.GroupName)
}
