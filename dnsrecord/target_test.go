package dnsrecord_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/couchbaselabs/asgdns/dnsrecord"
	"github.com/stretchr/testify/assert"
)

func TestNewRecordTarget(t *testing.T) {
	target := dnsrecord.NewRecordTarget("Z123", "web.example.com")
	assert.Equal(t, "Z123", target.HostedZoneID)
	assert.Equal(t, "web.example.com", target.DomainName)
	assert.Equal(t, types.RRTypeA, target.Type)
	assert.Equal(t, int64(300), target.TTL)
}

func TestNamesEqual(t *testing.T) {
	assert.True(t, dnsrecord.NamesEqual("web.example.com.", "web.example.com"))
	assert.True(t, dnsrecord.NamesEqual("WEB.Example.com", "web.example.com."))
	assert.True(t, dnsrecord.NamesEqual(`\052.example.com.`, "*.example.com"))
	assert.False(t, dnsrecord.NamesEqual("eb.example.com.", "web.example.com"))
	assert.False(t, dnsrecord.NamesEqual("web.example.com.", "example.com"))
	assert.Equal(t, `a\b`, dnsrecord.NormalizeName(`a\b`))
}
