package validators

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubDNS(t *testing.T, mx []*net.MX, ips []net.IP) {
	t.Helper()

	origMX, origIP := lookupMX, lookupIP
	t.Cleanup(func() {
		lookupMX, lookupIP = origMX, origIP
	})

	lookupMX = func(string) ([]*net.MX, error) {
		if mx == nil {
			return nil, errors.New("no mx")
		}
		return mx, nil
	}
	lookupIP = func(string) ([]net.IP, error) {
		if ips == nil {
			return nil, errors.New("no host")
		}
		return ips, nil
	}
}

func TestIsEmailDomainValid_Syntax(t *testing.T) {
	stubDNS(t, []*net.MX{{Host: "mx.example.dk"}}, nil)

	assert.False(t, IsEmailDomainValid("no-at-sign"))
	assert.False(t, IsEmailDomainValid("trailing@"))
	assert.False(t, IsEmailDomainValid("jens@localhost"))
	assert.True(t, IsEmailDomainValid("jens@example.dk"))
}

func TestIsEmailDomainValid_ResolvesViaMXOrIP(t *testing.T) {
	stubDNS(t, []*net.MX{{Host: "mx.example.dk"}}, nil)
	assert.True(t, IsEmailDomainValid("jens@example.dk"))

	stubDNS(t, nil, []net.IP{net.ParseIP("192.0.2.1")})
	assert.True(t, IsEmailDomainValid("jens@example.dk"))

	stubDNS(t, nil, nil)
	assert.False(t, IsEmailDomainValid("jens@doesnotexist.example"))
}
