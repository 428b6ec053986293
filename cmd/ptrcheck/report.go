package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dnshygiene/ptrcheck/audit"
	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/log"
)

const (
	rightArrow = "➡"
	fire       = "🔥"
	trophy     = "🏆"
	facepalm   = "🤦"
	sparkles   = "✨"
)

// printReport writes the audit results to log.Out(). The forward names of an address are
// listed before its results in verbose mode, otherwise only ahead of its first failure.
func (t *ptrCheck) printReport(rep *audit.Report) {
	verbose := log.IfMinor()
	p := t.cfg.palette
	o := log.Out()

	for _, res := range rep.Results {
		listed := false
		list := func() {
			if !listed {
				listNames(o, p, res)
				listed = true
			}
		}
		if verbose {
			list()
		}

		for _, v := range res.Verdicts {
			switch v.Kind {
			case audit.Ok:
				if verbose {
					fmt.Fprintf(o, "    %s: %s\n", p.good.Sprint("Found PTR"), dnsutil.ChompName(v.Name))
				}
			case audit.BadPtr:
				list()
				fmt.Fprintf(o, "    %s '%s' for %s (matched regexp '%s')\n",
					p.bad.Sprint("Bad PTR content"), p.bad.Sprint(dnsutil.ChompName(v.Name)),
					p.value.Sprint(res.Addr), p.value.Sprint(v.Pattern))
			case audit.MissingPtr:
				list()
				fmt.Fprintf(o, "    %s for %s\n", p.bad.Sprint("Missing PTR"), p.value.Sprint(res.Addr))
			case audit.ResolutionTimedOut:
				list()
				fmt.Fprintf(o, "    %s for %s\n", p.bad.Sprint("PTR lookup timed out"), p.value.Sprint(res.Addr))
			}
		}
	}

	s := rep.Summary
	if s.Failures > 0 {
		fmt.Fprintf(o, "%s %s missing/broken PTR record%s\n",
			fire, p.bad.Sprint(s.Failures), plural(s.Failures))
	}

	if verbose && s.HasPercent {
		badge := sparkles
		suffix := ""
		switch s.PercentOK {
		case 100:
			badge = trophy
			suffix = " Good job!"
		case 0:
			badge = facepalm
		}
		fmt.Fprintf(o, "%s %.1f%% good PTRs!%s\n", badge, s.PercentOK, suffix)
	}
}

func listNames(o io.Writer, p *palette, res audit.Result) {
	names := make([]string, 0, len(res.Names))
	for _, n := range res.Names {
		names = append(names, dnsutil.ChompName(n))
	}
	fmt.Fprintf(o, "%s %s is pointed to by:\n", p.arrow.Sprint(rightArrow), res.Addr)
	fmt.Fprintf(o, "    %s\n", strings.Join(names, ", "))
}
