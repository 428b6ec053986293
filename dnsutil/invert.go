package dnsutil

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// InvertPtrToAddr extracts and inverts the IP address from a reverse qName, the opposite
// of IPToReverseQName. Only complete reverse names are accepted; a truncated name such as
// 1.168.192.in-addr.arpa is not an address. Mock servers use this to map PTR queries
// back to the addresses they were configured with.
func InvertPtrToAddr(qName string) (netip.Addr, error) {
	qName = dns.CanonicalName(qName)
	if strings.HasSuffix(qName, V4Suffix) {
		return invertPtrToIPv4(strings.TrimSuffix(qName, V4Suffix))
	}
	if strings.HasSuffix(qName, V6Suffix) {
		return invertPtrToIPv6(strings.TrimSuffix(qName, V6Suffix))
	}

	return netip.Addr{}, fmt.Errorf("Unknown reverse suffix '%s'", qName)
}

// As a reminder, a dig -x 192.168.1.2 results in a qName of 2.1.168.192.in-addr.arpa. The
// suffix is removed by the caller leaving just 2.1.168.192.
func invertPtrToIPv4(qName string) (netip.Addr, error) {
	reverse := strings.Split(qName, ".")
	if len(reverse) != 4 {
		return netip.Addr{}, fmt.Errorf("Malformed reverse ipv4 address '%s'", qName)
	}
	var octets [4]byte
	for ix, octet := range reverse {
		v := convertDecimalOctet(octet)
		if v == -1 {
			return netip.Addr{}, fmt.Errorf("Malformed reverse ipv4 address '%s'", qName)
		}
		octets[3-ix] = byte(v)
	}

	return netip.AddrFrom4(octets), nil
}

// Expected input is 32 single hex-digit labels, least significant nibble first, less the
// "ip6.arpa" suffix.
func invertPtrToIPv6(qName string) (netip.Addr, error) {
	reverse := strings.Split(qName, ".")
	if len(reverse) != 32 {
		return netip.Addr{}, fmt.Errorf("Malformed reverse ipv6 address '%s'", qName)
	}
	var b [16]byte
	for ix, hStr := range reverse {
		if len(hStr) != 1 {
			return netip.Addr{}, fmt.Errorf("Malformed reverse ipv6 address '%s'", qName)
		}
		n := strings.IndexByte(hexDigits, hStr[0]) // qName is already lower-case
		if n == -1 {
			return netip.Addr{}, fmt.Errorf("Malformed reverse ipv6 address '%s'", qName)
		}
		bx := 15 - ix/2
		if ix%2 == 0 {
			b[bx] |= byte(n)
		} else {
			b[bx] |= byte(n) << 4
		}
	}

	return netip.AddrFrom16(b), nil
}

// convertDecimalOctet strictly converts an ipv4 decimal octet to an int. Return -1 if
// conversion fails. Rules: no leading zeroes, numeric range 0-255, length 1-3 bytes and
// no non-digit characters.
func convertDecimalOctet(s string) (ret int) {
	if len(s) == 0 || len(s) > 3 {
		return -1
	}
	if s[0] == '0' && len(s) > 1 {
		return -1
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		ret = ret*10 + int(c-'0')
	}
	if ret > 255 {
		return -1
	}

	return
}
