package main

import (
	"context"
	"time"

	"github.com/dnshygiene/ptrcheck/audit"
	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/zone"
)

// run transfers the zone, audits every address and prints the report. The return value
// is the exit code.
func (t *ptrCheck) run(ctx context.Context) int {
	cfg := t.cfg
	p := cfg.palette
	if log.IfMinor() {
		log.Minorf("Connecting to %s port %s for AXFR of zone %s",
			p.value.Sprint(cfg.endpoint.IP), p.value.Sprint(cfg.endpoint.Port),
			p.value.Sprint(cfg.zoneName))
	}

	set, stats, err := zone.Transfer(ctx, cfg.transfer, cfg.endpoint, cfg.zoneName)
	if err != nil {
		if ctx.Err() != nil {
			return fatal(context.Cause(ctx), "Transfer interrupted")
		}
		return fatal(err)
	}
	if log.IfMinor() {
		log.Minorf("Found %s unique address (A/AAAA) record%s",
			p.good.Sprint(set.Len()), plural(set.Len()))
	}

	auditor := &audit.Auditor{
		Resolver:   t.resolver,
		BadPattern: cfg.badPattern,
		Parallel:   cfg.parallel,
	}
	rep := auditor.Run(ctx, set)
	if ctx.Err() != nil { // Interrupted, so the report is incomplete
		return fatal(context.Cause(ctx), "Audit interrupted")
	}

	t.printReport(rep)

	if log.IfDebug() {
		c := rep.Counters
		log.Debugf("Messages=%d Records=%d Lookups=%d WithPtr=%d NoPtr=%d TimedOut=%d Faults=%d Elapsed=%s",
			stats.Messages, stats.Records, c.Lookups, c.WithPtr, c.NoPtr, c.TimedOut, c.Faults,
			time.Since(t.startTime).Round(time.Millisecond))
	}

	if !rep.Summary.Passed() {
		return exitFailure
	}

	return exitOK
}

func plural(n int) string {
	if n == 1 {
		return ""
	}

	return "s"
}
