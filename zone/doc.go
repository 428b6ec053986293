/*
Package zone transfers a zone with AXFR and folds its address records into an AddressSet,
the ordered address → owner-names map which the audit runs against.

The transfer response is consumed as a MessageStream: a lazy, once-only sequence of DNS
messages read from the TCP connection in delivery order. Servers are free to send the
whole zone in one message or one record per message, so the stream keeps reading until
the closing SOA arrives rather than assuming any particular message count.

Every message has its rcode inspected before its records are looked at. REFUSED and
NOTAUTH terminate the transfer with a *RejectedError. Those two are reported distinctly
from other failures as they almost always mean the server will not transfer this zone to
this client, or is not a source of truth for it. Use IsRejection to test for them.
*/
package zone
