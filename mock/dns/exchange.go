package dns

import (
	"fmt"
	"net/netip"
	"sync"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
)

type ExchangeResponse struct {
	Ignore    bool
	Truncated bool
	Rcode     int
	Answer    []dns.RR
}

// ExchangeServer is designed for a single DNS exchange, a dumb server which copies
// response values into the reply message. It never checks the input or anything like
// that.
type ExchangeServer struct {
	mu         sync.Mutex
	resp       *ExchangeResponse
	queryCount int
}

// SetResponse sets a new response for the next query and resets the query count
func (t *ExchangeServer) SetResponse(r *ExchangeResponse) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resp = r
	t.queryCount = 0
}

// QueryCount returns the number of times the current response has been served
func (t *ExchangeServer) QueryCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queryCount
}

// ServeDNS meets the interface definition for dns.Handler
func (t *ExchangeServer) ServeDNS(wtr dns.ResponseWriter, q *dns.Msg) {
	t.mu.Lock()
	resp := t.resp
	t.queryCount++
	t.mu.Unlock()
	if resp == nil {
		panic("resp == nil in mock exchange server")
	}
	if resp.Ignore {
		return
	}

	m := new(dns.Msg)
	m.SetRcode(q, resp.Rcode)
	m.RecursionAvailable = true
	if resp.Truncated {
		m.MsgHdr.Truncated = true
	} else if resp.Rcode == dns.RcodeSuccess { // Only populate if rcode is good
		m.Answer = resp.Answer
	}

	err := wtr.WriteMsg(m)
	if err != nil {
		fmt.Println("Alert: WriteMsg error:", err)
	}
}

// PTRAnswer is how the PTRServer responds for one address. Zero names and a zero Rcode
// is a NODATA response.
type PTRAnswer struct {
	Names  []string
	Rcode  int
	Ignore bool // Never respond so the client times out
}

// PTRServer acts as a recursive server which only answers PTR queries. Addresses not in
// Answers get NXDOMAIN.
type PTRServer struct {
	mu      sync.Mutex
	answers map[netip.Addr]PTRAnswer
	queries int
}

// SetAnswer sets the response for the reverse query of addr, which must be a valid IP
// address.
func (t *PTRServer) SetAnswer(addr string, a PTRAnswer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.answers == nil {
		t.answers = make(map[netip.Addr]PTRAnswer)
	}
	t.answers[netip.MustParseAddr(addr)] = a
}

// Queries returns the number of queries served so far
func (t *PTRServer) Queries() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queries
}

// ServeDNS meets the interface definition for dns.Handler
func (t *PTRServer) ServeDNS(wtr dns.ResponseWriter, q *dns.Msg) {
	m := new(dns.Msg)
	if len(q.Question) != 1 || q.Question[0].Qtype != dns.TypePTR {
		m.SetRcode(q, dns.RcodeFormatError)
		wtr.WriteMsg(m)
		return
	}

	qName := q.Question[0].Name
	addr, err := dnsutil.InvertPtrToAddr(qName)
	t.mu.Lock()
	t.queries++
	a, found := t.answers[addr]
	t.mu.Unlock()

	if a.Ignore {
		return
	}
	if err != nil || !found {
		m.SetRcode(q, dns.RcodeNameError)
		wtr.WriteMsg(m)
		return
	}

	m.SetRcode(q, a.Rcode)
	m.RecursionAvailable = true
	for _, name := range a.Names {
		m.Answer = append(m.Answer, &dns.PTR{
			Hdr: dns.RR_Header{Name: qName, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 60},
			Ptr: dns.Fqdn(name),
		})
	}
	wtr.WriteMsg(m)
}
