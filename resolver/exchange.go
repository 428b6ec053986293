package resolver

import (
	"context"
	"time"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/log"
)

// exchange makes a single UDP exchange with server, falling back to TCP if the response
// is truncated. There are no retries.
func (t *resolver) exchange(ctx context.Context, q *dns.Msg, server string) (*dns.Msg, error) {
	r, err := t.singleExchange(ctx, dnsutil.UDPNetwork, q, server)
	if err != nil {
		return nil, err
	}

	// If truncated, try again with TCP
	if r.MsgHdr.Rcode == dns.RcodeSuccess && r.MsgHdr.Truncated {
		r, err = t.singleExchange(ctx, dnsutil.TCPNetwork, q, server)
	}

	return r, err
}

// singleExchange sets an overall deadline for the exchange, so the caller doesn't have to
// worry about timeouts via context.
func (t *resolver) singleExchange(ctx context.Context, network string, q *dns.Msg,
	server string) (*dns.Msg, error) {
	ctxWithTO, cancel := context.WithDeadline(ctx, time.Now().Add(t.timeout))
	defer cancel()

	client := &dns.Client{Net: network, Timeout: t.timeout, UDPSize: dnsutil.MaxUDPSize}
	question := q.Question[0]
	if log.IfDebug() {
		LogExchangeQ(network, server, question)
	}

	r, _, err := client.ExchangeContext(ctxWithTO, q, server)

	if log.IfDebug() {
		LogExchangeA(server, question, r, err)
	}

	return r, err
}
