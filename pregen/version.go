/*
Package pregen contains values which are set ahead of the build process, currently just
the program version and release date printed by --version.
*/
package pregen

const (
	Version     = "v0.1.0"
	ReleaseDate = "2026-10-18"
)
