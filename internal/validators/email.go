package validators

import (
	"net"
	"strings"
)

// hooks de DNS substituíveis em teste
var (
	lookupMX = net.LookupMX
	lookupIP = net.LookupIP
)

// IsEmailDomainValid checa se o domínio do e-mail do cliente resolve (MX ou
// A/AAAA). Barra typo de domínio antes de qualquer escrita no provider.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}

	if mx, err := lookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := lookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
