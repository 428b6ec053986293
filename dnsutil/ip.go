package dnsutil

import (
	"net/netip"
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdef"

// IPToReverseQName converts an IP address into the reverse qName normally looked up in
// the reverse tree. It includes the reverse suffix, is fully qualified and is ready for
// querying. An IPv4-mapped IPv6 address is treated as the IPv4 address it maps.
//
// An empty string is returned if the address is the zero netip.Addr.
func IPToReverseQName(ip netip.Addr) string {
	if !ip.IsValid() {
		return ""
	}

	ip = ip.Unmap()
	if ip.Is4() {
		b := ip.As4()
		return strconv.Itoa(int(b[3])) + "." + strconv.Itoa(int(b[2])) + "." +
			strconv.Itoa(int(b[1])) + "." + strconv.Itoa(int(b[0])) + V4Suffix
	}

	b := ip.As16()
	var sb strings.Builder
	sb.Grow(64 + len(V6Suffix))
	for ix := 15; ix >= 0; ix-- {
		sb.WriteByte(hexDigits[b[ix]&0xf])
		sb.WriteByte('.')
		sb.WriteByte(hexDigits[b[ix]>>4])
		if ix > 0 {
			sb.WriteByte('.')
		}
	}
	sb.WriteString(V6Suffix)

	return sb.String()
}
