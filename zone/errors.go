package zone

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
)

var (
	ErrInvalidZone      = errors.New("invalid zone name")
	ErrTransferRejected = errors.New("zone transfer refused")
	ErrNotAuthoritative = errors.New("server is not authoritative for zone")
	ErrTransferProtocol = errors.New("zone transfer protocol error")
)

// ConnectionError is returned when the TCP connection to the server cannot be
// established or the AXFR query cannot be sent.
type ConnectionError struct {
	Server string
	Err    error
}

func (t *ConnectionError) Error() string {
	return fmt.Sprintf("Connection to %s failed: %s", t.Server, dnsutil.ShortenLookupError(t.Err))
}

func (t *ConnectionError) Unwrap() error {
	return t.Err
}

// RejectedError is the terminal REFUSED or NOTAUTH response to a transfer. It matches
// ErrTransferRejected or ErrNotAuthoritative with errors.Is depending on Rcode.
type RejectedError struct {
	Server string
	Zone   string
	Rcode  int
}

func (t *RejectedError) Error() string {
	if t.Rcode == dns.RcodeNotAuth {
		return fmt.Sprintf("DNS server at %s is not authoritative for %s", t.Server, t.Zone)
	}

	return fmt.Sprintf("DNS server at %s refused our AXFR of %s", t.Server, t.Zone)
}

func (t *RejectedError) Is(target error) bool {
	switch target {
	case ErrTransferRejected:
		return t.Rcode == dns.RcodeRefused
	case ErrNotAuthoritative:
		return t.Rcode == dns.RcodeNotAuth
	}

	return false
}

// ProtocolError covers every other failure once the transfer has started: unexpected
// rcodes, undecodable messages, mismatched message IDs and streams which do not start
// with an SOA. Msg is the offending message, if there is one. It matches
// ErrTransferProtocol with errors.Is.
type ProtocolError struct {
	Reason string
	Msg    *dns.Msg
	Err    error
}

func (t *ProtocolError) Error() string {
	s := "AXFR " + t.Reason
	if t.Err != nil {
		s += ": " + dnsutil.ShortenLookupError(t.Err).Error()
	}
	if t.Msg != nil {
		s += ": " + dnsutil.PrettyMsg1(t.Msg)
	}

	return s
}

func (t *ProtocolError) Unwrap() []error {
	if t.Err == nil {
		return []error{ErrTransferProtocol}
	}

	return []error{ErrTransferProtocol, t.Err}
}

// IsRejection returns true if err is, or wraps, one of the two terminal rejections.
func IsRejection(err error) bool {
	return errors.Is(err, ErrTransferRejected) || errors.Is(err, ErrNotAuthoritative)
}
