/*
Package audit classifies each address found in a zone by the PTR records which point back
at it.

ReverseLookup turns a resolver response into an Outcome of NoPtr, HasPtr or TimedOut. An
Auditor then runs ReverseLookup over every address in a zone.AddressSet and produces a
Report of per-address Verdicts (Ok, MissingPtr, BadPtr or ResolutionTimedOut) along with
a Summary health score. Results are always in AddressSet order regardless of how many
lookups run in parallel.

Resolver faults which are neither "no records" nor a timeout are logged and treated as
NoPtr so one broken server does not stop the audit.
*/
package audit
