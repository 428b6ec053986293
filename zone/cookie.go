package zone

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"net/netip"

	"github.com/dchest/siphash"
	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
)

const clientCookieLength = 8 // Always exactly this long (rfc7873 s4)

// cookieSecret is generated once per run. A client cookie only needs to be stable for the
// life of a conversation with a server and unguessable to anyone else.
type cookieSecret [2]uint64

func newCookieSecret() (s cookieSecret) {
	b := make([]byte, 16) // Effectively two uint64s as needed by siphash-2-4
	rand.Read(b)
	s[0] = binary.BigEndian.Uint64(b[:8])
	s[1] = binary.BigEndian.Uint64(b[8:])

	return
}

// clientCookie generates the rfc7873 client cookie for server. The suggested input is the
// server address hashed with a client secret. SipHash-2-4 is used as it is for rfc9018
// server cookies. Returned as a hex string which is what miekg wants.
func (t cookieSecret) clientCookie(server netip.Addr) string {
	ip := server.Unmap().AsSlice()
	sum64 := siphash.Hash(t[0], t[1], ip)
	b := make([]byte, clientCookieLength)
	binary.BigEndian.PutUint64(b, sum64)

	return hex.EncodeToString(b)
}

// addCookie attaches an OPT RR carrying the client cookie to the query.
func addCookie(q *dns.Msg, cookie string) {
	q.SetEdns0(dnsutil.MaxUDPSize, false)
	opt := q.IsEdns0()
	e := new(dns.EDNS0_COOKIE)
	e.Code = dns.EDNS0COOKIE
	e.Cookie = cookie
	opt.Option = append(opt.Option, e)
}

// findCookie returns the hex cookie payload from a response's OPT RR, if present.
func findCookie(m *dns.Msg) string {
	opt := m.IsEdns0()
	if opt == nil {
		return ""
	}
	for _, subopt := range opt.Option {
		if so, ok := subopt.(*dns.EDNS0_COOKIE); ok {
			return so.Cookie
		}
	}

	return ""
}
