package main

import (
	"context"
	"net"
	"net/netip"
	"os"
	"strings"
	"testing"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/mock"
	mockDNS "github.com/dnshygiene/ptrcheck/mock/dns"
	mockResolver "github.com/dnshygiene/ptrcheck/mock/resolver"
	"github.com/dnshygiene/ptrcheck/osutil"
)

func startAxfr(t *testing.T, resp *mockDNS.AXFRResponse) (*mockDNS.AxfrServer, string) {
	t.Helper()
	h := &mockDNS.AxfrServer{Path: "testdata/"}
	h.SetResponse(resp)
	srv, addr := mockDNS.StartServer("tcp", "127.0.0.1:0", h)
	t.Cleanup(func() { srv.Shutdown() })

	return h, addr
}

// runPtrCheck runs the whole program with the file-driven mock resolver and returns the
// exit code and everything written.
func runPtrCheck(t *testing.T, options ...string) (int, string) {
	t.Helper()
	out := &mock.IOWriter{}
	log.SetOut(out)
	defer log.SetLevel(log.MajorLevel)

	pc := newPtrCheck(nil, mockResolver.NewResolver("testdata"))
	code := pc.execute(context.Background(), append([]string{programName}, options...))

	return code, out.String()
}

func checkContains(t *testing.T, got string, exps ...string) {
	t.Helper()
	for _, exp := range exps {
		if !strings.Contains(got, exp) {
			t.Error("Output does not contain:", exp, "\nGot:\n"+got)
		}
	}
}

func TestRunAllGood(t *testing.T) {
	_, server := startAxfr(t, &mockDNS.AXFRResponse{})

	code, got := runPtrCheck(t, "-s", server, "-z", "good.example", "-c", "never")
	if code != exitOK {
		t.Error("Exit code should be", exitOK, "not", code)
	}
	if len(got) > 0 {
		t.Error("A clean non-verbose audit should be silent, got", got)
	}

	code, got = runPtrCheck(t, "-s", server, "-z", "good.example", "-c", "never", "-v")
	if code != exitOK {
		t.Error("Verbose exit code should be", exitOK, "not", code)
	}
	host, port, _ := net.SplitHostPort(server)
	checkContains(t, got,
		"Connecting to "+host+" port "+port+" for AXFR of zone good.example.\n",
		"Zone contains 4 records\n",
		"Found 2 unique address (A/AAAA) records\n",
		"➡ 192.0.2.1 is pointed to by:\n    www.good.example, alias.good.example\n    Found PTR: www.example.net\n",
		"➡ 2001:db8::1 is pointed to by:\n    v6.good.example\n    Found PTR: v6.good.example\n",
		"🏆 100.0% good PTRs! Good job!\n")
	if strings.Contains(got, "🔥") {
		t.Error("No failures should mean no fire", got)
	}
}

func TestRunFailures(t *testing.T) {
	_, server := startAxfr(t, &mockDNS.AXFRResponse{RRsPerMessage: 2})

	code, got := runPtrCheck(t, "-s", server, "-z", "example.net", "-b", "dynamic", "-c", "never")
	if code != exitFailure {
		t.Error("Exit code should be", exitFailure, "not", code)
	}
	checkContains(t, got,
		"➡ 192.0.2.3 is pointed to by:\n    dyn.example.net\n"+
			"    Bad PTR content 'dynamic-3.isp.example' for 192.0.2.3 (matched regexp 'dynamic')\n",
		"➡ 192.0.2.4 is pointed to by:\n    missing.example.net\n    Missing PTR for 192.0.2.4\n",
		"➡ 192.0.2.5 is pointed to by:\n    slow.example.net\n    PTR lookup timed out for 192.0.2.5\n",
		"🔥 3 missing/broken PTR records\n")
	for _, unexp := range []string{"192.0.2.1", "Found PTR", "good PTRs"} {
		if strings.Contains(got, unexp) {
			t.Error("Non-verbose output should not contain", unexp)
		}
	}

	// Verbose adds the score and the healthy addresses
	code, got = runPtrCheck(t, "-s", server, "-z", "example.net", "-b", "dynamic", "-c", "never",
		"-v", "--parallel", "3")
	if code != exitFailure {
		t.Error("Verbose exit code should be", exitFailure, "not", code)
	}
	checkContains(t, got,
		"Zone contains 6 records\n",
		"➡ 192.0.2.1 is pointed to by:\n    www.example.net\n    Found PTR: www.example.net\n",
		"✨ 25.0% good PTRs!\n")
	if strings.Index(got, "192.0.2.1 is") > strings.Index(got, "192.0.2.5 is") {
		t.Error("Report not in zone order", got)
	}
}

func TestRunOneFailure(t *testing.T) {
	zoneRRs := []dns.RR{}
	for _, s := range []string{
		"one.example. 60 IN SOA ns. host. 1 2 3 4 5",
		"a.one.example. 60 IN A 192.0.2.4",
	} {
		rr, err := dns.NewRR(s)
		if err != nil {
			t.Fatal(err)
		}
		zoneRRs = append(zoneRRs, rr)
	}
	_, server := startAxfr(t, &mockDNS.AXFRResponse{Zone: zoneRRs})

	code, got := runPtrCheck(t, "-s", server, "-z", "one.example", "-c", "never", "-v")
	if code != exitFailure {
		t.Error("Exit code should be", exitFailure, "not", code)
	}
	checkContains(t, got,
		"Zone contains 1 record\n",
		"Found 1 unique address (A/AAAA) record\n",
		"🔥 1 missing/broken PTR record\n",
		"🤦 0.0% good PTRs!\n")
}

func TestRunTransferErrors(t *testing.T) {
	h, server := startAxfr(t, &mockDNS.AXFRResponse{})

	testCases := []struct {
		resp   mockDNS.AXFRResponse
		code   int
		expect string
	}{
		{mockDNS.AXFRResponse{Rcode: dns.RcodeRefused}, exitRejected,
			"Fatal: DNS server at " + server + " refused our AXFR"},
		{mockDNS.AXFRResponse{Rcode: dns.RcodeNotAuth}, exitRejected,
			"Fatal: DNS server at " + server + " is not authoritative for example.net."},
		{mockDNS.AXFRResponse{RRsPerMessage: 1, FailAt: 4, FailRcode: dns.RcodeRefused}, exitRejected,
			"refused our AXFR"},
		{mockDNS.AXFRResponse{Rcode: dns.RcodeServerFailure}, exitFailure,
			"Fatal: AXFR unexpected rcode SERVFAIL"},
		{mockDNS.AXFRResponse{OmitSOA: true}, exitFailure, "does not start with SOA"},
	}

	for ix, tc := range testCases {
		h.SetResponse(&tc.resp)
		code, got := runPtrCheck(t, "-s", server, "-z", "example.net", "-c", "never")
		if code != tc.code {
			t.Error(ix, "Exit code should be", tc.code, "not", code)
		}
		if !strings.Contains(got, tc.expect) {
			t.Error(ix, "Output does not contain", tc.expect, "got", got)
		}
		if strings.Contains(got, "➡") {
			t.Error(ix, "No audit should follow a failed transfer", got)
		}
	}
}

func TestRunConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	server := l.Addr().String()
	l.Close()

	code, got := runPtrCheck(t, "-s", server, "-z", "example.net", "--timeout", "1s")
	if code != exitFailure {
		t.Error("Exit code should be", exitFailure, "not", code)
	}
	checkContains(t, got, "Fatal: Connection to "+server+" failed")
}

// Usage errors are all detected before any network activity
func TestRunUsageErrors(t *testing.T) {
	h, server := startAxfr(t, &mockDNS.AXFRResponse{})

	testCases := []struct {
		options []string
		expect  string
	}{
		{[]string{"-s", server, "-z", "example.net", "-b", "(["}, "Fatal: Invalid regex: (["},
		{[]string{"-s", "300.0.0.1", "-z", "example.net"}, "not a valid IP address: 300.0.0.1"},
		{[]string{"-s", server, "-z", "bad..zone"}, "invalid zone name"},
		{[]string{"-s", server}, "--zone is required"},
		{[]string{"-s", server, "-z", "example.net", "goop"}, "goop"},
	}
	for ix, tc := range testCases {
		code, got := runPtrCheck(t, tc.options...)
		if code != exitFailure {
			t.Error(ix, "Exit code should be", exitFailure, "not", code)
		}
		if !strings.Contains(got, tc.expect) {
			t.Error(ix, "Output does not contain", tc.expect, "got", got)
		}
	}
	if h.Queries() != 0 {
		t.Error("Usage errors should not reach the server", h.Queries())
	}

	code, _ := runPtrCheck(t, "--version")
	if code != exitOK {
		t.Error("--version should exit", exitOK, "not", code)
	}
}

func TestRunColor(t *testing.T) {
	_, server := startAxfr(t, &mockDNS.AXFRResponse{})

	_, got := runPtrCheck(t, "-s", server, "-z", "example.net", "-b", "dynamic", "-c", "always")
	if !strings.Contains(got, "\x1b[") {
		t.Error("--color always produced no escape sequences", got)
	}

	_, got = runPtrCheck(t, "-s", server, "-z", "example.net", "-b", "dynamic", "-c", "never")
	if strings.Contains(got, "\x1b[") {
		t.Error("--color never produced escape sequences", got)
	}
}

func TestRunDebug(t *testing.T) {
	_, server := startAxfr(t, &mockDNS.AXFRResponse{})

	code, got := runPtrCheck(t, "-s", server, "-z", "good.example", "-c", "never", "--debug", "--cookie")
	if code != exitOK {
		t.Error("Exit code should be", exitOK, "not", code)
	}
	checkContains(t, got,
		"   Dbg:AXFR Q:tcp:"+server+" q=IN/AXFR good.example.",
		"   Dbg:AXFR A:",
		"   Dbg:mock:PTR 192.0.2.1 [www.example.net.]",
		"   Dbg:Messages=1 Records=6 Lookups=2 WithPtr=2 NoPtr=0 TimedOut=0 Faults=0",
		"Found PTR: www.example.net") // Debug implies verbose
}

// interruptingResolver simulates ^C arriving during the first reverse lookup
type interruptingResolver struct {
	cancel context.CancelCauseFunc
}

func (t *interruptingResolver) LookupPTR(ctx context.Context, addr netip.Addr) ([]string, error) {
	t.cancel(&osutil.StopError{Signal: os.Interrupt})
	return nil, ctx.Err()
}

func TestRunInterrupted(t *testing.T) {
	_, server := startAxfr(t, &mockDNS.AXFRResponse{})
	out := &mock.IOWriter{}
	log.SetOut(out)
	args := []string{programName, "-s", server, "-z", "good.example", "-c", "never"}

	// During the audit
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)
	code := newPtrCheck(nil, &interruptingResolver{cancel: cancel}).execute(ctx, args)
	if code != exitFailure {
		t.Error("Exit code should be", exitFailure, "not", code)
	}
	got := out.String()
	checkContains(t, got, "Fatal: Audit interrupted: stopped by signal interrupt")
	if strings.Contains(got, "➡") || strings.Contains(got, "Unhandled") {
		t.Error("An interrupted audit should print no report or faults", got)
	}

	// Before the transfer
	out.Reset()
	ctx, cancel = context.WithCancelCause(context.Background())
	cancel(&osutil.StopError{Signal: os.Interrupt})
	code = newPtrCheck(nil, mockResolver.NewResolver("testdata")).execute(ctx, args)
	if code != exitFailure {
		t.Error("Exit code should be", exitFailure, "not", code)
	}
	checkContains(t, out.String(), "Fatal: Transfer interrupted: stopped by signal interrupt")
}
