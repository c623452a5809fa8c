package awscontrol

import (
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/samber/lo"
)

type InstanceState int

const (
	InstanceStateUnknown InstanceState = iota
	InstanceStatePending
	InstanceStateRunning
	InstanceStateShuttingDown
	InstanceStateTerminated
	InstanceStateStopping
	InstanceStateStopped
)

func ParseInstanceState(name types.InstanceStateName) InstanceState {
	switch name {
	case types.InstanceStateNamePending:
		return InstanceStatePending
	case types.InstanceStateNameRunning:
		return InstanceStateRunning
	case types.InstanceStateNameShuttingDown:
		return InstanceStateShuttingDown
	case types.InstanceStateNameTerminated:
		return InstanceStateTerminated
	case types.InstanceStateNameStopping:
		return InstanceStateStopping
	case types.InstanceStateNameStopped:
		return InstanceStateStopped
	default:
		return InstanceStateUnknown
	}
}

// IsMember reports whether an instance in this state belongs in the record.
func (s InstanceState) IsMember() bool {
	return s == InstanceStateRunning || s == InstanceStatePending
}

type MemberAddress struct {
	Address    string
	InstanceID string
}

// GroupSnapshot is the membership of a group at one point in time. Members
// are unordered.
type GroupSnapshot struct {
	GroupName string
	Members   []MemberAddress
}

func (s *GroupSnapshot) Addresses() []string {
	return lo.Map(s.Members, func(m MemberAddress, _ int) string {
		return m.Address
	})
}

func (s *GroupSnapshot) Len() int {
	return len(s.Members)
}

func (s *GroupSnapshot) IsEmpty() bool {
	return len(s.Members) == 0
}
