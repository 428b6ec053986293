/*
Package log provides global output control for ptrcheck. Output comes in four levels:
Silent, Major, Minor and Debug with each level more detailed than the previous. Levels are
inclusive, so, e.g., if MinorLevel is set that implies MajorLevel output.

ptrcheck uses the levels this way: Major is the normal audit report, Minor is what
--verbose adds (record counts, every PTR found) and Debug is every DNS exchange.

Print and Printf style functions differ from the fmt versions in two ways. If the
resulting string contains multiple lines they are all printed with the prefix for the
level and a trailing newline is not needed as excess ones are trimmed.

Writes are serialized so concurrent reverse lookups can log without interleaving partial
lines. Writers which use Out() directly, such as the final report, only do so once all
lookups are complete.
*/
package log
