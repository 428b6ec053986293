package resolver

import (
	"context"
	"errors"
	"net"
	"net/netip"

	"github.com/miekg/dns"
)

// Resolver is the one network lookup needed by the auditor.
//
// Implementations must be concurrency safe as the auditor may have multiple lookups in
// flight.
type Resolver interface {

	// LookupPTR returns the names found in the PTR RRset for the reverse name of addr
	// in the order the server supplied them. An empty RRset is never returned; that
	// is ErrNoRecords.
	//
	// LookupPTR derives a WithTimeout context from the supplied context for each
	// exchange so the caller doesn't have to worry about timeouts.
	LookupPTR(ctx context.Context, addr netip.Addr) ([]string, error)
}

// These error messages use the same suffixes as the Go standard library where there is
// an equivalent.
var (
	// ErrNoRecords means the reverse name does not exist (NXDOMAIN) or exists with no
	// PTR records (NODATA).
	ErrNoRecords = errors.New("no PTR records")

	// ErrTimeout means no server responded in time.
	ErrTimeout = errors.New("i/o timeout")

	// ErrServerMisbehaving means the server responded with an rcode other than
	// NOERROR or NXDOMAIN.
	ErrServerMisbehaving = errors.New("server misbehaving")

	// ErrInvalidResponse means the response does not match the query.
	ErrInvalidResponse = errors.New("invalid DNS response")

	// ErrNoServers means the configuration has no name servers in it.
	ErrNoServers = errors.New("no name servers configured")
)

// IsTimeout returns true if err is ErrTimeout or any other timeout, such as an expired
// context or a net.Error which says it is one.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	return false
}

// ResponseErrorFromRcode maps the rcode of a validated response to one of the package
// errors. NOERROR returns nil even if the answer is empty; that is for the caller to
// decide.
func ResponseErrorFromRcode(resp *dns.Msg) error {
	switch resp.Rcode {
	case dns.RcodeSuccess:
		return nil
	case dns.RcodeNameError:
		return ErrNoRecords
	}

	return ErrServerMisbehaving
}

// ValidateResponse checks that resp is a response to query with the same ID and
// question.
func ValidateResponse(query, resp *dns.Msg) error {
	if !resp.Response || resp.Id != query.Id {
		return ErrInvalidResponse
	}
	if len(query.Question) != 1 || len(resp.Question) != 1 {
		return ErrInvalidResponse
	}
	q0, r0 := query.Question[0], resp.Question[0]
	if !equalASCIIName(q0.Name, r0.Name) || q0.Qclass != r0.Qclass || q0.Qtype != r0.Qtype {
		return ErrInvalidResponse
	}

	return nil
}

// equalASCIIName compares names case-insensitively without allocating.
func equalASCIIName(x, y string) bool {
	if len(x) != len(y) {
		return false
	}
	for i := 0; i < len(x); i++ {
		a := x[i]
		b := y[i]
		if 'A' <= a && a <= 'Z' {
			a += 0x20
		}
		if 'A' <= b && b <= 'Z' {
			b += 0x20
		}
		if a != b {
			return false
		}
	}

	return true
}

// ExtractPTRNames returns the targets of the PTR RRs in resp which are owned by qName,
// following a CNAME chain if one is present. Classless delegations (rfc2317) return a
// CNAME followed by the PTR so the chain matters.
func ExtractPTRNames(qName string, resp *dns.Msg) ([]string, error) {
	current := dns.CanonicalName(qName)
	valid := map[string]bool{current: true}
	for _, rr := range resp.Answer {
		if cname, ok := rr.(*dns.CNAME); ok && dns.CanonicalName(cname.Hdr.Name) == current {
			current = dns.CanonicalName(cname.Target)
			valid[current] = true
		}
	}

	var names []string
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok && valid[dns.CanonicalName(ptr.Hdr.Name)] {
			names = append(names, ptr.Ptr)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoRecords
	}

	return names, nil
}
