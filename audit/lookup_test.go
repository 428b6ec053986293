package audit

import (
	"context"
	"net/netip"
	"testing"

	mockResolver "github.com/dnshygiene/ptrcheck/mock/resolver"
)

func TestReverseLookup(t *testing.T) {
	out := captureLog(t)
	res := mockResolver.NewResolver("testdata")
	testCases := []struct {
		addr  string
		kind  OutcomeKind
		names int
		fault bool
	}{
		{"192.0.2.1", HasPtr, 1, false},
		{"192.0.2.3", HasPtr, 2, false},
		{"192.0.2.4", NoPtr, 0, false},
		{"192.0.2.5", TimedOut, 0, false},
		{"192.0.2.6", NoPtr, 0, true},
		{"192.0.2.99", NoPtr, 0, true}, // No mock file means REFUSED
	}

	for ix, tc := range testCases {
		out.Reset()
		o := ReverseLookup(context.Background(), res, netip.MustParseAddr(tc.addr))
		if o.Kind != tc.kind {
			t.Error(ix, tc.addr, "Wrong kind. Want", tc.kind, "got", o.Kind)
		}
		if len(o.Names) != tc.names {
			t.Error(ix, tc.addr, "Wrong name count", o.Names)
		}
		if (o.Err != nil) != tc.fault {
			t.Error(ix, tc.addr, "Fault mismatch", o.Err)
		}
		if tc.fault && out.Len() == 0 {
			t.Error(ix, tc.addr, "Fault not logged")
		}
		if !tc.fault && out.Len() > 0 {
			t.Error(ix, tc.addr, "Unexpected log output", out.String())
		}
	}
}

func TestKindStrings(t *testing.T) {
	for ix, tc := range []struct{ got, exp string }{
		{NoPtr.String(), "NoPtr"},
		{HasPtr.String(), "HasPtr"},
		{TimedOut.String(), "TimedOut"},
		{Ok.String(), "Ok"},
		{MissingPtr.String(), "MissingPtr"},
		{BadPtr.String(), "BadPtr"},
		{ResolutionTimedOut.String(), "ResolutionTimedOut"},
	} {
		if tc.got != tc.exp {
			t.Error(ix, "Want", tc.exp, "got", tc.got)
		}
	}
}

func TestReverseLookupCancelled(t *testing.T) {
	out := captureLog(t)
	res := mockResolver.NewResolver("testdata")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := ReverseLookup(ctx, res, netip.MustParseAddr("192.0.2.1"))
	if o.Kind != NoPtr || o.Err != context.Canceled {
		t.Error("Cancelled lookup should be NoPtr/Canceled, got", o.Kind, o.Err)
	}
	if res.Lookups() != 0 {
		t.Error("Resolver should not be called after cancel", res.Lookups())
	}
	if out.Len() > 0 {
		t.Error("Cancel should not be logged as a fault", out.String())
	}
}
