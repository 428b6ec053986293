// This file exists so that "go doc github.com/dnshygiene/ptrcheck" displays something
// useful.

/*
Package ptrcheck audits the reverse DNS of a forward zone. It transfers the zone with AXFR,
collects every unique address from the A and AAAA records and checks that each address has
a PTR record. Optionally each PTR name is checked against a regular expression which
identifies names that are unacceptable, such as auto-generated ISP names.

The program is in cmd/ptrcheck. Exit status is zero when every address passes.

Project site: https://github.com/dnshygiene/ptrcheck
*/
package ptrcheck
