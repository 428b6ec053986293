/*
Package resolver is a mock implementation of the resolver.Resolver interface which loads
responses from files rather than asking the network.
*/
package resolver

import (
	"context"
	"errors"
	"net/netip"
	"sync/atomic"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/resolver"
)

// mockResolver implements the resolver.Resolver interface by converting queries to file
// names and loading responses from those files. The convention is, if the file doesn't
// exist, the response is REFUSED which LookupPTR reports as a misbehaving server. If the
// file exists, each line in the file is parsed as described in loadFile.
//
// The filename convention for Lookup functions is: $dir/lookup/$Class/$Type/$qname where
// $qname has no trailing dot.
type mockResolver struct {
	dir     string
	lookups atomic.Int64
}

// NewResolver creates a mock resolver which uses the supplied directory as the location
// of mock files to parse to produce dns lookup responses.
func NewResolver(dir string) *mockResolver {
	return &mockResolver{dir: dir}
}

// Lookups returns the number of LookupPTR calls made so far
func (t *mockResolver) Lookups() int {
	return int(t.lookups.Load())
}

func (t *mockResolver) LookupPTR(ctx context.Context, addr netip.Addr) (names []string, err error) {
	t.lookups.Add(1)
	qName := dnsutil.ChompCanonicalName(dnsutil.IPToReverseQName(addr))
	fr, path := t.loadLookupFile("IN", "PTR", qName)

	switch {
	case fr.timeout:
		err = resolver.ErrTimeout
	case len(fr.errText) > 0:
		err = errors.New(fr.errText)
	default:
		err = resolver.ResponseErrorFromRcode(&fr.msg)
		if err == nil {
			names, err = resolver.ExtractPTRNames(qName+".", &fr.msg)
		}
	}

	if log.IfDebug() {
		log.Debugf("mock:PTR %s %v %v %s", addr, names, err, path)
	}

	return
}
