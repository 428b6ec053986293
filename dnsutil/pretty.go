package dnsutil

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// All Pretty* functions returns a compact "pretty" version of various dns structures. The
// standard String() is designed to be consistent with traditional dig-type output which
// is too verbose for a one-line-per-exchange debug trace.

// PrettyMsg1 returns a compact string representing the complete message.
func PrettyMsg1(m *dns.Msg) string {
	h := m.MsgHdr
	flags := []string{}
	if h.Response {
		flags = append(flags, "qr")
	}
	if h.Authoritative {
		flags = append(flags, "aa")
	}
	if h.Truncated {
		flags = append(flags, "tc")
	}
	if h.RecursionAvailable {
		flags = append(flags, "ra")
	}

	return fmt.Sprintf("%d f=%s %s Q=%d-%s Ans=%d-%s Ns=%d-%s Extra=%d-%s",
		h.Id, strings.Join(flags, "+"), RcodeToString(h.Rcode),
		len(m.Question), questionTypes(m.Question),
		len(m.Answer), rrTypes(m.Answer),
		len(m.Ns), rrTypes(m.Ns),
		len(m.Extra), rrTypes(m.Extra))
}

func questionTypes(qs []dns.Question) string {
	ar := make([]string, 0, len(qs))
	for _, q := range qs {
		ar = append(ar, TypeToString(q.Qtype))
	}
	return strings.Join(ar, ",")
}

func rrTypes(rrs []dns.RR) string {
	ar := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		ar = append(ar, TypeToString(rr.Header().Rrtype))
	}
	return strings.Join(ar, ",")
}

// PrettyQuestion returns a compact representation of the dns.Question
func PrettyQuestion(q dns.Question) string {
	return fmt.Sprintf("%s/%s %s",
		ClassToString(dns.Class(q.Qclass)),
		TypeToString(q.Qtype),
		q.Name)
}

// PrettyRR returns a compact representation of the single RR. The types ptrcheck cares
// about get a compact rendering while everything else uses the miekg String().
func PrettyRR(rr dns.RR, includeName bool) (s string) {
	h := rr.Header()
	if includeName {
		s = h.Name + " "
	}
	s += fmt.Sprintf("%s/%s %d ", ClassToString(dns.Class(h.Class)),
		TypeToString(h.Rrtype), h.Ttl)

	switch rrt := rr.(type) {
	case *dns.A:
		return s + rrt.A.String()
	case *dns.AAAA:
		return s + rrt.AAAA.String()
	case *dns.PTR:
		return s + rrt.Ptr
	case *dns.SOA:
		return s + fmt.Sprintf("%s %s %d %d %d %d %d", rrt.Ns, rrt.Mbox,
			rrt.Serial, rrt.Refresh, rrt.Retry, rrt.Expire, rrt.Minttl)
	}

	return rr.String()
}

// PrettyRRSet returns a compact representation of the slice of RRs. Each RR is separated
// by a comma.
func PrettyRRSet(rrs []dns.RR, includeName bool) string {
	ar := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		ar = append(ar, PrettyRR(rr, includeName))
	}

	return strings.Join(ar, ", ")
}

// PrettyAddr returns a compact representation of the single address RR. It can be either
// an A or an AAAA RR.
func PrettyAddr(rr dns.RR, includeName bool) (s string) {
	if includeName {
		s = ChompCanonicalName(rr.Header().Name) + "/"
	}
	switch rrt := rr.(type) {
	case *dns.A:
		s += rrt.A.String()
	case *dns.AAAA:
		s += rrt.AAAA.String()
	default:
		s += "?PrettyAddr?"
	}

	return
}

// ClassToString converts an miekg class to a string, but if the resulting string is empty
// it's replaced with the numeric value.
func ClassToString(c dns.Class) (s string) {
	s = dns.ClassToString[uint16(c)]
	if len(s) == 0 {
		s = fmt.Sprintf("C-%d", c)
	}

	return
}

// TypeToString converts an miekg type to a string, or the numeric value if miekg has no
// name for it.
func TypeToString(t uint16) (s string) {
	s = dns.TypeToString[t]
	if len(s) == 0 {
		s = fmt.Sprintf("T-%d", t)
	}

	return
}

// RcodeToString converts an miekg rcode to a string, or the numeric value if miekg has no
// name for it.
func RcodeToString(r int) (s string) {
	s = dns.RcodeToString[r]
	if len(s) == 0 {
		s = fmt.Sprintf("r-%d", r)
	}

	return
}
