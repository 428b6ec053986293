package resolver

import (
	"context"
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/mock"
	mockDNS "github.com/dnshygiene/ptrcheck/mock/dns"
)

const testTimeout = 250 * time.Millisecond

func startPTRServer(t *testing.T) (*mockDNS.PTRServer, string) {
	t.Helper()
	h := &mockDNS.PTRServer{}
	srv, addr := mockDNS.StartServer("udp", "127.0.0.1:0", h)
	t.Cleanup(func() { srv.Shutdown() })

	return h, addr
}

func TestLookupPTR(t *testing.T) {
	h, server := startPTRServer(t)
	h.SetAnswer("192.0.2.1", mockDNS.PTRAnswer{Names: []string{"a.example.net", "b.example.net"}})
	h.SetAnswer("192.0.2.2", mockDNS.PTRAnswer{}) // NODATA
	h.SetAnswer("192.0.2.4", mockDNS.PTRAnswer{Rcode: dns.RcodeServerFailure})
	h.SetAnswer("2001:db8::1", mockDNS.PTRAnswer{Names: []string{"v6.example.net"}})

	res := NewResolver(Config{Servers: []string{server}, Timeout: testTimeout})
	testCases := []struct {
		addr  string
		names []string
		err   error
	}{
		{"192.0.2.1", []string{"a.example.net.", "b.example.net."}, nil},
		{"192.0.2.2", nil, ErrNoRecords},
		{"192.0.2.3", nil, ErrNoRecords}, // NXDOMAIN
		{"192.0.2.4", nil, ErrServerMisbehaving},
		{"2001:db8::1", []string{"v6.example.net."}, nil},
	}

	for ix, tc := range testCases {
		names, err := res.LookupPTR(context.Background(), netip.MustParseAddr(tc.addr))
		if tc.err != nil {
			require.ErrorIs(t, err, tc.err, ix)
			require.False(t, IsTimeout(err), ix)
		} else {
			require.NoError(t, err, ix)
		}
		require.Equal(t, tc.names, names, ix)
	}
}

func TestLookupPTRTimeout(t *testing.T) {
	h, server := startPTRServer(t)
	h.SetAnswer("192.0.2.1", mockDNS.PTRAnswer{Ignore: true})

	res := NewResolver(Config{Servers: []string{server}, Timeout: testTimeout})
	start := time.Now()
	_, err := res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.1"))
	require.ErrorIs(t, err, ErrTimeout)
	require.True(t, IsTimeout(err))
	require.GreaterOrEqual(t, time.Since(start), testTimeout)
	require.Equal(t, 1, h.Queries(), "Timeouts should not be retried")
}

func TestLookupPTRFailover(t *testing.T) {
	hDead := &mockDNS.ExchangeServer{}
	srvDead, dead := mockDNS.StartServer("udp", "127.0.0.1:0", hDead)
	defer srvDead.Shutdown()
	h, good := startPTRServer(t)
	h.SetAnswer("192.0.2.1", mockDNS.PTRAnswer{Names: []string{"a.example.net"}})

	res := NewResolver(Config{Servers: []string{dead, good}, Timeout: testTimeout})
	for ix, resp := range []*mockDNS.ExchangeResponse{
		{Ignore: true},
		{Rcode: dns.RcodeServerFailure},
		{Rcode: dns.RcodeRefused},
	} {
		hDead.SetResponse(resp)
		names, err := res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.1"))
		require.NoError(t, err, ix)
		require.Equal(t, []string{"a.example.net."}, names, ix)
		require.Equal(t, 1, hDead.QueryCount(), ix)
	}

	// A definitive negative answer from the first server stops the search
	hDead.SetResponse(&mockDNS.ExchangeResponse{Rcode: dns.RcodeNameError})
	before := h.Queries()
	_, err := res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.1"))
	require.ErrorIs(t, err, ErrNoRecords)
	require.Equal(t, before, h.Queries())

	// All servers timing out is a timeout
	h.SetAnswer("192.0.2.9", mockDNS.PTRAnswer{Ignore: true})
	hDead.SetResponse(&mockDNS.ExchangeResponse{Ignore: true})
	_, err = res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.9"))
	require.True(t, IsTimeout(err))

	// A timeout from an earlier server outranks a later server misbehaving
	h.SetAnswer("192.0.2.10", mockDNS.PTRAnswer{Rcode: dns.RcodeServerFailure})
	hDead.SetResponse(&mockDNS.ExchangeResponse{Ignore: true})
	_, err = res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.10"))
	require.ErrorIs(t, err, ErrTimeout)
	require.True(t, IsTimeout(err))

	// Misbehaving everywhere stays misbehaving
	hDead.SetResponse(&mockDNS.ExchangeResponse{Rcode: dns.RcodeRefused})
	_, err = res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.10"))
	require.ErrorIs(t, err, ErrServerMisbehaving)
	require.False(t, IsTimeout(err))
}

func TestLookupPTRTruncated(t *testing.T) {
	out := &mock.IOWriter{}
	log.SetOut(out)
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(log.MajorLevel)

	hUDP := &mockDNS.ExchangeServer{}
	srvUDP, server := mockDNS.StartServer("udp", "127.0.0.1:0", hUDP)
	defer srvUDP.Shutdown()
	hTCP := &mockDNS.ExchangeServer{}
	srvTCP, _ := mockDNS.StartServer("tcp", server, hTCP)
	defer srvTCP.Shutdown()

	addr := netip.MustParseAddr("192.0.2.1")
	qName := dnsutil.IPToReverseQName(addr)
	hUDP.SetResponse(&mockDNS.ExchangeResponse{Truncated: true})
	hTCP.SetResponse(&mockDNS.ExchangeResponse{Answer: []dns.RR{
		runtimex.PanicOnError1(dns.NewRR(qName + " 60 IN PTR big.example.net.")),
	}})

	res := NewResolver(Config{Servers: []string{server}, Timeout: testTimeout})
	names, err := res.LookupPTR(context.Background(), addr)
	require.NoError(t, err)
	require.Equal(t, []string{"big.example.net."}, names)
	require.Equal(t, 1, hUDP.QueryCount())
	require.Equal(t, 1, hTCP.QueryCount())

	got := out.String()
	for _, exp := range []string{
		"Dbg:miekg Q:udp:" + server + " q=IN/PTR 1.2.0.192.in-addr.arpa.",
		"f=qr+tc+ra NOERROR",
		"Dbg:miekg Q:tcp:" + server,
		"IN/PTR 60 big.example.net.",
	} {
		if !strings.Contains(got, exp) {
			t.Error("Debug log does not contain", exp)
		}
	}
	t.Log(got) // Only written if errors
}

func TestLookupPTRNoServers(t *testing.T) {
	res := NewResolver(Config{})
	_, err := res.LookupPTR(context.Background(), netip.MustParseAddr("192.0.2.1"))
	require.ErrorIs(t, err, ErrNoServers)
}

func TestNewResolverDefaultPort(t *testing.T) {
	res := NewResolver(Config{Servers: []string{"192.0.2.53", "::1", "127.0.0.1:5353"}})
	require.Equal(t, []string{"192.0.2.53:53", "[::1]:53", "127.0.0.1:5353"}, res.servers)
	require.Equal(t, defaultTimeout, res.timeout)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "resolv.conf")
	err := os.WriteFile(good,
		[]byte("search example.net\nnameserver 127.0.0.1\nnameserver ::1\noptions timeout:2\n"), 0o644)
	require.NoError(t, err)
	cfg, err := LoadConfig(good)
	require.NoError(t, err)
	require.Equal(t, []string{"127.0.0.1:53", "[::1]:53"}, cfg.Servers)
	require.Equal(t, 2*time.Second, cfg.Timeout)

	empty := filepath.Join(dir, "empty.conf")
	require.NoError(t, os.WriteFile(empty, []byte("search example.net\n"), 0o644))
	_, err = LoadConfig(empty)
	require.ErrorIs(t, err, ErrNoServers)

	_, err = LoadConfig(filepath.Join(dir, "nosuchfile"))
	require.Error(t, err)
}

func TestIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	testCases := []struct {
		err error
		exp bool
	}{
		{ErrTimeout, true},
		{ctx.Err(), true},
		{&timeoutError{}, true},
		{errors.Join(errors.New("wrapped"), ErrTimeout), true},
		{ErrNoRecords, false},
		{ErrServerMisbehaving, false},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for ix, tc := range testCases {
		if IsTimeout(tc.err) != tc.exp {
			t.Error(ix, "IsTimeout wrong for", tc.err)
		}
	}
}

type timeoutError struct{}

func (*timeoutError) Error() string   { return "read udp: i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }
