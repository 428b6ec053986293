/*
Package dns provides mock DNS servers for tests. Servers listen on loopback addresses and
are driven by a response struct which the test changes between queries.
*/
package dns

import (
	"net"

	"github.com/miekg/dns"
)

// StartServer starts a miekg DNS server and waits until it is ready to accept
// queries. serverAddr is normally "127.0.0.1:0" so the system picks a free port. The
// address actually listened on is returned so it can be handed to the code under test.
func StartServer(network, serverAddr string, h dns.Handler) (*dns.Server, string) {
	srv := &dns.Server{Net: network, Addr: serverAddr, Handler: h}
	hasStarted := make(chan struct{})
	srv.NotifyStartedFunc = func() {
		hasStarted <- struct{}{}
	}

	go func() {
		err := srv.ListenAndServe()
		defer close(hasStarted)
		if err != nil { // Shutdown or real error?
			panic("Setup of Server failed:" + err.Error())
		}
	}()

	<-hasStarted // Wait for server, one way of the other

	var addr net.Addr
	if srv.Listener != nil {
		addr = srv.Listener.Addr()
	} else {
		addr = srv.PacketConn.LocalAddr()
	}

	return srv, addr.String()
}
