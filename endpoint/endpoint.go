/*
Package endpoint converts the user-supplied server string into the address and port used
for the zone transfer. Accepted forms are ip, ip:port, [ipv6] and [ipv6]:port. When the
port is absent it defaults to the DNS port.
*/
package endpoint

import (
	"errors"
	"net"
	"net/netip"
	"regexp"
	"strconv"
	"strings"

	"github.com/dnshygiene/ptrcheck/dnsutil"
)

var (
	// ErrInvalidAddress means the address part is not an IPv4 or IPv6 literal.
	ErrInvalidAddress = errors.New("not a valid IP address")

	// ErrInvalidPort means the port part is not an integer between 1 and 65535.
	ErrInvalidPort = errors.New("port should be an integer between 1 and 65535")
)

// Error carries the offending text along with the kind of failure, which is one of the
// Err* sentinels and is reachable via errors.Is.
type Error struct {
	Kind error
	Text string
}

func (t *Error) Error() string {
	return t.Kind.Error() + ": " + t.Text
}

func (t *Error) Unwrap() error {
	return t.Kind
}

// Endpoint is the address of the server to transfer from. Port is never zero for an
// Endpoint returned by Parse.
type Endpoint struct {
	IP   netip.Addr
	Port uint16
}

// String returns the endpoint in host:port form with IPv6 addresses in brackets, which
// Parse accepts.
func (t Endpoint) String() string {
	return net.JoinHostPort(t.IP.String(), strconv.Itoa(int(t.Port)))
}

// AddrPort is the netip equivalent, convenient for dialing.
func (t Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(t.IP, t.Port)
}

// An unbracketed address followed by ":digits". Bracketed forms are split on the closing
// bracket instead.
var portSuffix = regexp.MustCompile(`^([^\[\]]+):([0-9]+)$`)

// Parse converts s into an Endpoint. A string which is an IP literal in its entirety
// (brackets optional) always takes the default port, so unbracketed IPv6 addresses
// ending in digits are not mistaken for address:port.
func Parse(s string) (Endpoint, error) {
	if ip, ok := wholeLiteral(s); ok {
		return Endpoint{IP: ip, Port: dnsutil.DefaultPort}, nil
	}
	if strings.HasPrefix(s, "[") {
		return parseBracketed(s)
	}
	if strings.ContainsAny(s, "[]") {
		return Endpoint{}, &Error{Kind: ErrInvalidAddress, Text: s}
	}

	m := portSuffix.FindStringSubmatch(s)
	if m == nil { // No port, so all of s must be the address
		return Endpoint{}, &Error{Kind: ErrInvalidAddress, Text: s}
	}
	ip, err := parseIP(m[1])
	if err != nil {
		return Endpoint{}, &Error{Kind: ErrInvalidAddress, Text: m[1]}
	}

	return withPort(ip, m[2])
}

// parseBracketed handles "[addr]" and "[addr]:port". Only the one pair of brackets
// is removed and anything after the closing bracket other than ":port" is an error.
func parseBracketed(s string) (Endpoint, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Endpoint{}, &Error{Kind: ErrInvalidAddress, Text: s}
	}
	ipStr, rest := s[1:end], s[end+1:]
	ip, err := parseIP(ipStr)
	if err != nil {
		return Endpoint{}, &Error{Kind: ErrInvalidAddress, Text: ipStr}
	}

	switch {
	case len(rest) == 0:
		return Endpoint{IP: ip, Port: dnsutil.DefaultPort}, nil
	case len(rest) > 1 && rest[0] == ':':
		return withPort(ip, rest[1:])
	}

	return Endpoint{}, &Error{Kind: ErrInvalidAddress, Text: s}
}

func withPort(ip netip.Addr, portStr string) (Endpoint, error) {
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Endpoint{}, &Error{Kind: ErrInvalidPort, Text: portStr}
	}

	return Endpoint{IP: ip, Port: uint16(port)}, nil
}

// wholeLiteral returns the address if s is nothing but an IP literal, either bare or
// entirely enclosed in one pair of brackets.
func wholeLiteral(s string) (netip.Addr, bool) {
	switch {
	case len(s) > 1 && s[0] == '[' && s[len(s)-1] == ']':
		s = s[1 : len(s)-1]
	case strings.ContainsAny(s, "[]"):
		return netip.Addr{}, false
	}
	ip, err := parseIP(s)

	return ip, err == nil
}

// parseIP accepts IPv4 and IPv6 literals, including zoned IPv6 addresses. IPv4-mapped
// IPv6 addresses are unmapped so they dial as IPv4.
func parseIP(s string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}

	return ip.Unmap(), nil
}
