package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
)

const (
	DefaultConfigPath = "/etc/resolv.conf"
	defaultTimeout    = 5 * time.Second // Same as the resolv.conf default
)

// Config is the subset of the host resolver configuration which matters to reverse
// lookups.
type Config struct {
	Servers []string      // In host:port form, tried in order
	Timeout time.Duration // Per exchange
}

// LoadConfig reads a resolv.conf style file. The file is only ever read. A missing
// timeout option gets the traditional default.
func LoadConfig(path string) (Config, error) {
	cc, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Timeout: defaultTimeout}
	if cc.Timeout > 0 {
		cfg.Timeout = time.Duration(cc.Timeout) * time.Second
	}
	for _, s := range cc.Servers {
		cfg.Servers = append(cfg.Servers, net.JoinHostPort(s, cc.Port))
	}
	if len(cfg.Servers) == 0 {
		return cfg, fmt.Errorf("%s: %w", path, ErrNoServers)
	}

	return cfg, nil
}

type resolver struct {
	servers []string
	timeout time.Duration
}

// NewResolver creates a fully formed resolver which is ready to use. Servers without a
// port get the DNS port.
func NewResolver(cfg Config) *resolver {
	t := &resolver{timeout: cfg.Timeout}
	if t.timeout <= 0 {
		t.timeout = defaultTimeout
	}
	for _, s := range cfg.Servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, strconv.Itoa(int(dnsutil.DefaultPort)))
		}
		t.servers = append(t.servers, s)
	}

	return t
}

// LookupPTR sends a recursive PTR query to each server in turn until one gives a
// definitive answer. Each server is tried once; a timeout or a misbehaving server moves
// on to the next. If none answer, a timeout from any server takes precedence over the
// other errors, otherwise the error from the last server tried is returned.
func (t *resolver) LookupPTR(ctx context.Context, addr netip.Addr) ([]string, error) {
	if len(t.servers) == 0 {
		return nil, ErrNoServers
	}

	qName := dnsutil.IPToReverseQName(addr)
	q := new(dns.Msg)
	q.SetQuestion(qName, dns.TypePTR)
	q.RecursionDesired = true
	q.SetEdns0(dnsutil.MaxUDPSize, false)

	var err, timeoutErr error
	for _, server := range t.servers {
		var names []string
		names, err = t.lookupPTR(ctx, q, server)
		if err == nil || errors.Is(err, ErrNoRecords) {
			return names, err
		}
		if timeoutErr == nil && IsTimeout(err) {
			timeoutErr = err
		}
		if ctx.Err() != nil { // No point trying other servers
			return nil, err
		}
	}
	if timeoutErr != nil {
		return nil, timeoutErr
	}

	return nil, err
}

func (t *resolver) lookupPTR(ctx context.Context, q *dns.Msg, server string) ([]string, error) {
	r, err := t.exchange(ctx, q, server)
	if err != nil {
		if IsTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, server)
		}
		return nil, err
	}
	if err := ValidateResponse(q, r); err != nil {
		return nil, err
	}
	if err := ResponseErrorFromRcode(r); err != nil {
		if errors.Is(err, ErrServerMisbehaving) {
			return nil, fmt.Errorf("%w: %s from %s", err, dnsutil.RcodeToString(r.Rcode), server)
		}
		return nil, err
	}

	return ExtractPTRNames(q.Question[0].Name, r)
}
