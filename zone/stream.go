package zone

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/endpoint"
	"github.com/dnshygiene/ptrcheck/log"
)

// MessageStream is the response side of a single AXFR. It is consumed with Next in the
// same manner as dns.ZoneParser:
//
//	for m, ok := ms.Next(); ok; m, ok = ms.Next() {
//	}
//	if err := ms.Err(); err != nil {
//
// The stream is finite and cannot be restarted. Every message returned by Next has
// already been checked for the correct ID and a NOERROR rcode. Next returns false once
// the closing SOA has been seen or a message fails those checks, after which Err
// reports the reason, if any. Close must always be called.
type MessageStream struct {
	server      string
	zone        string
	readTimeout time.Duration

	conn *dns.Conn
	tr   *dns.Transfer
	stop func() bool // Cancels the context watcher

	queryID  uint16
	messages int
	done     bool
	err      error
}

// Open connects to the server and sends the AXFR query for zone, which must already be
// canonical. Once Open returns without error the caller owns the stream and must Close
// it. A context which is cancelled while the stream is open closes the connection,
// causing the pending Next to fail.
func Open(ctx context.Context, cfg Config, ep endpoint.Endpoint, zone string) (*MessageStream, error) {
	server := ep.String()
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	nc, err := dialer.DialContext(ctx, dnsutil.TCPNetwork, server)
	if err != nil {
		return nil, &ConnectionError{Server: server, Err: err}
	}

	t := &MessageStream{
		server:      server,
		zone:        zone,
		readTimeout: cfg.ReadTimeout,
		conn:        &dns.Conn{Conn: nc},
	}
	t.tr = &dns.Transfer{Conn: t.conn}
	t.stop = context.AfterFunc(ctx, func() { nc.Close() })

	q := new(dns.Msg)
	q.SetAxfr(zone)
	if cfg.Cookie {
		addCookie(q, cookieJar().clientCookie(ep.IP))
	}
	t.queryID = q.Id

	if log.IfDebug() {
		log.Debugf("AXFR Q:%s:%s q=%s", dnsutil.TCPNetwork, server, dnsutil.PrettyQuestion(q.Question[0]))
	}
	nc.SetWriteDeadline(time.Now().Add(cfg.ReadTimeout))
	err = t.tr.WriteMsg(q)
	if err != nil {
		t.Close()
		return nil, &ConnectionError{Server: server, Err: err}
	}

	return t, nil
}

// Next returns the next message of the transfer and true, or nil and false when the
// stream is exhausted or has failed.
func (t *MessageStream) Next() (*dns.Msg, bool) {
	if t.done {
		return nil, false
	}

	t.conn.SetReadDeadline(time.Now().Add(t.readTimeout))
	m, err := t.tr.ReadMsg()
	if err != nil {
		return t.fail(&ProtocolError{Reason: "read failed", Err: err})
	}
	if log.IfDebug() {
		log.Debug("AXFR A:", dnsutil.PrettyMsg1(m))
		if c := findCookie(m); len(c) > 0 {
			log.Debug("AXFR server cookie:", c)
		}
	}

	if m.Id != t.queryID {
		return t.fail(&ProtocolError{Reason: "response ID does not match query", Msg: m})
	}

	switch m.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeRefused, dns.RcodeNotAuth:
		return t.fail(&RejectedError{Server: t.server, Zone: t.zone, Rcode: m.Rcode})
	default:
		return t.fail(&ProtocolError{Reason: "unexpected rcode " + dnsutil.RcodeToString(m.Rcode), Msg: m})
	}

	t.messages++
	if t.messages == 1 {
		if len(m.Answer) == 0 || m.Answer[0].Header().Rrtype != dns.TypeSOA {
			return t.fail(&ProtocolError{Reason: "response does not start with SOA", Msg: m})
		}
		if len(m.Answer) == 1 { // The opening SOA on its own, so more to come
			return m, true
		}
	}

	if l := len(m.Answer); l > 0 && m.Answer[l-1].Header().Rrtype == dns.TypeSOA {
		t.done = true
	}

	return m, true
}

func (t *MessageStream) fail(err error) (*dns.Msg, bool) {
	t.err = err
	t.done = true

	return nil, false
}

// Err returns the reason the stream stopped early. It is nil if the closing SOA was
// seen.
func (t *MessageStream) Err() error {
	return t.err
}

// Messages returns the number of messages accepted so far.
func (t *MessageStream) Messages() int {
	return t.messages
}

// Close releases the connection. It is safe to call more than once.
func (t *MessageStream) Close() error {
	t.stop()
	t.done = true

	return t.conn.Close()
}
