/*
Package resolver defines the Resolver interface used for reverse lookups and provides a
concrete implementation built on github.com/miekg/dns which sends queries to the
recursive servers named in the host's resolver configuration.

The sole reason this is an interface is so reverse lookups can be mocked for testing
purposes. Errors are reported via the sentinels in this package so callers can tell "no
PTR" apart from "could not find out".
*/
package resolver
