package asgevent

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

var ErrMalformedEvent = errors.New("malformed autoscaling event")

type EventType int

const (
	EventTypeOther EventType = iota
	EventTypeLaunch
	EventTypeTerminate
)

const (
	EVENT_INSTANCE_LAUNCH    = "autoscaling:EC2_INSTANCE_LAUNCH"
	EVENT_INSTANCE_TERMINATE = "autoscaling:EC2_INSTANCE_TERMINATE"
)

// ParseEventType maps the notification's Event field onto the closed set of
// event types. Anything we do not act on becomes EventTypeOther.
func ParseEventType(value string) EventType {
	switch value {
	case EVENT_INSTANCE_LAUNCH:
		return EventTypeLaunch
	case EVENT_INSTANCE_TERMINATE:
		return EventTypeTerminate
	default:
		return EventTypeOther
	}
}

func (t EventType) String() string {
	switch t {
	case EventTypeLaunch:
		return "launch"
	case EventTypeTerminate:
		return "terminate"
	default:
		return "other"
	}
}

// Message is the JSON document autoscaling publishes to SNS when a group's
// membership changes.
type Message struct {
	Event                string `json:"Event"`
	AutoScalingGroupName string `json:"AutoScalingGroupName"`
	Service              string `json:"Service,omitempty"`
	Time                 string `json:"Time,omitempty"`
	AccountID            string `json:"AccountId,omitempty"`
	RequestID            string `json:"RequestId,omitempty"`
	ActivityID           string `json:"ActivityId,omitempty"`
	EC2InstanceID        string `json:"EC2InstanceId,omitempty"`
	Description          string `json:"Description,omitempty"`
	Cause                string `json:"Cause,omitempty"`
	StatusCode           string `json:"StatusCode,omitempty"`
}

type ChangeEvent struct {
	Type      EventType
	GroupName string
	Raw       *Message
}

func (e *ChangeEvent) Actionable() bool {
	return e.Type == EventTypeLaunch || e.Type == EventTypeTerminate
}

func Parse(envelope events.SNSEvent) (*ChangeEvent, error) {
	if len(envelope.Records) == 0 {
		return nil, errors.Wrap(ErrMalformedEvent, "envelope contains no records")
	}

	payload := envelope.Records[0].SNS.Message
	if payload == "" {
		return nil, errors.Wrap(ErrMalformedEvent, "record contains no message")
	}

	return ParseMessage([]byte(payload))
}

func ParseMessage(payload []byte) (*ChangeEvent, error) {
	var msg Message
	err := json.Unmarshal(payload, &msg)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedEvent, "failed to decode message: %s", err)
	}

	if msg.Event == "" {
		return nil, errors.Wrap(ErrMalformedEvent, "message has no Event field")
	}

	evt := &ChangeEvent{
		Type:      ParseEventType(msg.Event),
		GroupName: msg.AutoScalingGroupName,
		Raw:       &msg,
	}

	if evt.Actionable() && evt.GroupName == "" {
		return nil, errors.Wrapf(ErrMalformedEvent, "%s message has no AutoScalingGroupName field", msg.Event)
	}

	return evt, nil
}
