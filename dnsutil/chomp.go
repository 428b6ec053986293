package dnsutil

import (
	"strings"

	"github.com/miekg/dns"
)

// ChompCanonicalName makes a name canonical but loses the trailing dot. For display and
// mock processing where zone names are often converted to file names, the trailing dot is
// more of a hinderance than a help.
func ChompCanonicalName(n string) string {
	return ChompName(dns.CanonicalName(n))
}

// ChompName removes one trailing dot, if present, without otherwise touching the name.
// PTR targets are displayed this way so their original case survives.
func ChompName(n string) string {
	return strings.TrimSuffix(n, ".")
}
