package dnsrecord

import (
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

const (
	DEFAULT_RECORD_TTL  int64        = 300
	DEFAULT_RECORD_TYPE types.RRType = types.RRTypeA
)

// RecordTarget identifies the single record set we keep in sync.
type RecordTarget struct {
	HostedZoneID string
	DomainName   string
	Type         types.RRType
	TTL          int64
}

func NewRecordTarget(hostedZoneID, domainName string) RecordTarget {
	return RecordTarget{
		HostedZoneID: hostedZoneID,
		DomainName:   domainName,
		Type:         DEFAULT_RECORD_TYPE,
		TTL:          DEFAULT_RECORD_TTL,
	}
}

// NormalizeName folds a record name into a comparable form. Route 53 returns
// names fully qualified, lower case and with special characters escaped as
// \NNN octal sequences.
func NormalizeName(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == '\\' && i+4 <= len(name) {
			if code, err := strconv.ParseUint(name[i+1:i+4], 8, 8); err == nil {
				sb.WriteByte(byte(code))
				i += 3
				continue
			}
		}
		sb.WriteByte(name[i])
	}

	return strings.TrimSuffix(strings.ToLower(sb.String()), ".")
}

func NamesEqual(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
