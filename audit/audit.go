package audit

import (
	"context"
	"errors"
	"net/netip"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/dnshygiene/ptrcheck/resolver"
	"github.com/dnshygiene/ptrcheck/zone"
)

type VerdictKind int

const (
	Ok VerdictKind = iota
	MissingPtr
	BadPtr
	ResolutionTimedOut
)

func (t VerdictKind) String() string {
	switch t {
	case Ok:
		return "Ok"
	case MissingPtr:
		return "MissingPtr"
	case BadPtr:
		return "BadPtr"
	}

	return "ResolutionTimedOut"
}

// Verdict is the judgement on one PTR name, or on the address as a whole when there is
// no name to judge. Name is set for Ok and BadPtr, Pattern only for BadPtr.
type Verdict struct {
	Kind    VerdictKind
	Name    string
	Pattern string
}

func (t Verdict) Failed() bool {
	return t.Kind != Ok
}

// Result is everything known about one address. Names are the owner names of the
// forward records which point at Addr. There is always at least one Verdict.
type Result struct {
	Addr     netip.Addr
	Names    []string
	Outcome  Outcome
	Verdicts []Verdict
}

// Failures returns the number of failed verdicts for this address.
func (t *Result) Failures() (n int) {
	for _, v := range t.Verdicts {
		if v.Failed() {
			n++
		}
	}

	return
}

// Counters tallies the outcomes of reverse lookups.
type Counters struct {
	Lookups  int
	WithPtr  int
	NoPtr    int // Includes Faults and lookups abandoned by cancellation
	TimedOut int
	Faults   int // Unhandled resolver errors
}

// Report is the complete result of an audit with Results in AddressSet order.
type Report struct {
	Results  []Result
	Summary  Summary
	Counters Counters
}

// Auditor checks the reverse side of every address in an AddressSet.
type Auditor struct {
	Resolver   resolver.Resolver
	BadPattern *regexp.Regexp // Matching PTR names are failures. nil means none are.
	Parallel   int            // Maximum concurrent lookups. Less than 2 means sequential.
}

// Run performs a reverse lookup for every address in set and classifies the results.
// Run only returns once all lookups are complete.
func (t *Auditor) Run(ctx context.Context, set *zone.AddressSet) *Report {
	addrs := set.Addrs()
	outcomes := make([]Outcome, len(addrs))

	if t.Parallel < 2 {
		for ix, addr := range addrs {
			outcomes[ix] = ReverseLookup(ctx, t.Resolver, addr)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(t.Parallel)
		for ix, addr := range addrs {
			g.Go(func() error {
				outcomes[ix] = ReverseLookup(ctx, t.Resolver, addr) // Each goroutine owns its slot
				return nil
			})
		}
		g.Wait() // Never an error
	}

	rep := &Report{Results: make([]Result, 0, len(addrs))}
	failures := 0
	for ix, addr := range addrs {
		res := Result{Addr: addr, Names: set.Names(addr), Outcome: outcomes[ix]}
		res.Verdicts = t.judge(outcomes[ix])
		failures += res.Failures()
		rep.Counters.add(outcomes[ix])
		rep.Results = append(rep.Results, res)
	}
	rep.Summary = Summarize(len(addrs), failures)

	return rep
}

// judge converts an Outcome into Verdicts. Each PTR name gets its own Verdict, so one
// address can contribute multiple failures.
func (t *Auditor) judge(o Outcome) []Verdict {
	switch o.Kind {
	case TimedOut:
		return []Verdict{{Kind: ResolutionTimedOut}}
	case NoPtr:
		return []Verdict{{Kind: MissingPtr}}
	}

	verdicts := make([]Verdict, 0, len(o.Names))
	for _, name := range o.Names {
		if t.BadPattern != nil && t.BadPattern.MatchString(name) {
			verdicts = append(verdicts, Verdict{Kind: BadPtr, Name: name, Pattern: t.BadPattern.String()})
		} else {
			verdicts = append(verdicts, Verdict{Kind: Ok, Name: name})
		}
	}

	return verdicts
}

func (t *Counters) add(o Outcome) {
	t.Lookups++
	switch o.Kind {
	case HasPtr:
		t.WithPtr++
	case TimedOut:
		t.TimedOut++
	default:
		t.NoPtr++
		if o.Err != nil && !errors.Is(o.Err, context.Canceled) && !errors.Is(o.Err, context.DeadlineExceeded) {
			t.Faults++
		}
	}
}
