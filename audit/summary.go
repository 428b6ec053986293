package audit

// Summary is the final health score of an audit. Total is the number of unique
// addresses audited and Failures the number of failed verdicts. As an address can have
// multiple bad PTRs, Failures can exceed Total.
type Summary struct {
	Total      int
	Failures   int
	PercentOK  float64
	HasPercent bool // False when there was nothing to audit
}

// Summarize computes the Summary for total addresses and failures verdicts. PercentOK is
// exactly 100 or 0 at the extremes so callers can compare against them.
func Summarize(total, failures int) Summary {
	s := Summary{Total: total, Failures: failures}
	if total == 0 {
		return s
	}

	s.HasPercent = true
	switch {
	case failures == 0:
		s.PercentOK = 100
	case failures >= total:
		s.PercentOK = 0
	default:
		s.PercentOK = float64(total-failures) / float64(total) * 100
	}

	return s
}

// Passed is true if there were no failures.
func (t Summary) Passed() bool {
	return t.Failures == 0
}
