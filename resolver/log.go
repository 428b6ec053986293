package resolver

import (
	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/log"
)

// LogExchangeQ logs the question given to miekg.Exchange(). Exported for mock
// resolver. Caller should test for log.IfDebug() prior to calling.
func LogExchangeQ(net, server string, q dns.Question) {
	log.Debugf("miekg Q:%s:%s q=%s", net, server, dnsutil.PrettyQuestion(q))
}

// LogExchangeA logs the answer returned by miekg.Exchange(). See above.
func LogExchangeA(server string, question dns.Question, r *dns.Msg, err error) {
	if err == nil {
		log.Debug("miekg A:", dnsutil.PrettyMsg1(r), " ", dnsutil.PrettyRRSet(r.Answer, false))
	} else {
		log.Debugf("miekg E:%s/%s/%s %s",
			server, dnsutil.ChompCanonicalName(question.Name),
			dns.TypeToString[question.Qtype],
			dnsutil.ShortenLookupError(err).Error())
	}
}
