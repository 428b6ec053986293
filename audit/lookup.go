package audit

import (
	"context"
	"errors"
	"net/netip"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/resolver"
)

type OutcomeKind int

const (
	NoPtr OutcomeKind = iota
	HasPtr
	TimedOut
)

func (t OutcomeKind) String() string {
	switch t {
	case HasPtr:
		return "HasPtr"
	case TimedOut:
		return "TimedOut"
	}

	return "NoPtr"
}

// Outcome is the result of one reverse lookup. Names is only set for HasPtr and is never
// empty then. Err is set when a NoPtr is really an unhandled resolver fault.
type Outcome struct {
	Kind  OutcomeKind
	Names []string
	Err   error
}

// ReverseLookup asks r for the PTR names of addr. It never fails; resolver errors which
// are not "no records" or a timeout are logged at Major level and reported as NoPtr with
// Err set. Timeouts are not retried. Once ctx is done no lookup is attempted and the
// outcome is a silent NoPtr carrying ctx.Err().
func ReverseLookup(ctx context.Context, r resolver.Resolver, addr netip.Addr) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Kind: NoPtr, Err: err}
	}
	names, err := r.LookupPTR(ctx, addr)
	switch {
	case err == nil && len(names) > 0:
		return Outcome{Kind: HasPtr, Names: names}
	case err == nil, errors.Is(err, resolver.ErrNoRecords):
		return Outcome{Kind: NoPtr}
	case resolver.IsTimeout(err):
		return Outcome{Kind: TimedOut}
	case ctx.Err() != nil:
		return Outcome{Kind: NoPtr, Err: ctx.Err()}
	}

	log.Majorf("    Unhandled resolver error for %s: %s", addr, dnsutil.ShortenLookupError(err))

	return Outcome{Kind: NoPtr, Err: err}
}
