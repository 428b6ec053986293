package dns

import (
	"os"
	"sync"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
)

// AXFRResponse is what is set with the AxfrServer to define what the response will be for
// its AXFR request. The zero value sends the whole zone in one message.
type AXFRResponse struct {
	Rcode int // If not NOERROR, the first and only message has this rcode

	RRsPerMessage int // Zero means all in one message

	FailAt    int // If > 0 message FailAt (counting from 1) is replaced with FailRcode
	FailRcode int

	HangAt  int // If > 0 stop sending at message HangAt and leave the connection open
	CloseAt int // If > 0 close the connection instead of sending message CloseAt

	OmitSOA bool     // Leave out the opening SOA
	BadID   bool     // Reply with a different message ID
	Zone    []dns.RR // If set, used instead of the zone file. Must start with the SOA.
}

// AxfrServer is a mock server designed for AXFR requests, a dumb server which loads the
// zone from a file and streams it back split into as many messages as the response says.
// It checks as little as possible to do the job.
type AxfrServer struct {
	Path    string // Prefix of zone file names which are Path + zone + ".zone"
	mu      sync.Mutex
	resp    *AXFRResponse
	queries int
}

// Queries returns the number of queries served so far
func (t *AxfrServer) Queries() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queries
}

// SetResponse sets a new response for the axfr query
func (t *AxfrServer) SetResponse(r *AXFRResponse) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resp = r
}

// ServeDNS meets the interface definition for dns.Handler
func (t *AxfrServer) ServeDNS(wtr dns.ResponseWriter, q *dns.Msg) {
	t.mu.Lock()
	resp := t.resp
	if resp == nil {
		t.mu.Unlock()
		panic("resp == nil in mock axfr server")
	}
	t.queries++
	t.mu.Unlock()

	if len(q.Question) != 1 {
		r := new(dns.Msg)
		r.SetRcode(q, dns.RcodeFormatError)
		wtr.WriteMsg(r)
		return
	}
	question := q.Question[0]
	if question.Qclass != dns.ClassINET || question.Qtype != dns.TypeAXFR {
		r := new(dns.Msg)
		r.SetRcode(q, dns.RcodeFormatError)
		wtr.WriteMsg(r)
		return
	}

	// Is a custom Rcode requested? If so, just reply with that.
	if resp.Rcode != dns.RcodeSuccess {
		r := new(dns.Msg)
		r.SetRcode(q, resp.Rcode)
		wtr.WriteMsg(r)
		return
	}

	rrs := resp.Zone
	if rrs == nil {
		var ok bool
		rrs, ok = t.load(dnsutil.ChompCanonicalName(question.Name))
		if !ok {
			r := new(dns.Msg)
			r.SetRcode(q, dns.RcodeNameError)
			wtr.WriteMsg(r)
			return
		}
	}
	if len(rrs) == 0 || rrs[0].Header().Rrtype != dns.TypeSOA {
		panic("Set up error: zone does not start with an SOA")
	}

	stream := append([]dns.RR{}, rrs...)
	stream = append(stream, rrs[0]) // Closing SOA
	if resp.OmitSOA {
		stream = stream[1:]
	}

	per := resp.RRsPerMessage
	if per <= 0 {
		per = len(stream)
	}

	msgNum := 0
	for len(stream) > 0 {
		msgNum++
		n := min(per, len(stream))
		chunk := stream[:n]
		stream = stream[n:]

		switch msgNum {
		case resp.HangAt:
			return
		case resp.CloseAt:
			wtr.Close()
			return
		}

		r := new(dns.Msg)
		r.SetReply(q)
		r.Authoritative = true
		if msgNum == resp.FailAt {
			r.Rcode = resp.FailRcode
		} else {
			r.Answer = chunk
		}
		if resp.BadID {
			r.Id = q.Id + 1
		}
		if err := wtr.WriteMsg(r); err != nil {
			return
		}
		if msgNum == resp.FailAt {
			return
		}
	}
}

func (t *AxfrServer) load(zone string) ([]dns.RR, bool) {
	file := t.Path + zone + ".zone"
	f, err := os.Open(file)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	parser := dns.NewZoneParser(f, zone+".", file)
	parser.SetDefaultTTL(60) // ZoneParser needs this in case $TTL is absent

	var rrs []dns.RR
	for rr, ok := parser.Next(); ok; rr, ok = parser.Next() {
		rrs = append(rrs, rr)
	}
	if err := parser.Err(); err != nil {
		panic("Set up error: " + err.Error())
	}

	return rrs, true
}
