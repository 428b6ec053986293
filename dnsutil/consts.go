package dnsutil

const (
	// Reverse zone suffixes. The leading '.' lets callers label-match with HasSuffix.
	V4Suffix = ".in-addr.arpa."
	V6Suffix = ".ip6.arpa."

	TCPNetwork = "tcp" // miekg and net both want these exact strings
	UDPNetwork = "udp"

	MaxUDPSize uint16 = 1232 // EDNS0 buffer size which avoids fragmentation

	DefaultPort uint16 = 53 // For servers and resolvers given without a port
)
