package main

import (
	"github.com/fatih/color"
)

const (
	colorAuto   = "auto"   // Colour if stdout is a terminal and NO_COLOR is unset
	colorAlways = "always" // Even into pipes
	colorNever  = "never"
)

// palette holds the colours used in the report. Each colour is forced on or off
// according to --color, otherwise fatih/color decides based on the terminal.
type palette struct {
	value *color.Color // Addresses, ports, counts and regexps
	good  *color.Color
	bad   *color.Color
	arrow *color.Color
}

func newPalette(mode string) *palette {
	t := &palette{
		value: color.New(color.FgCyan),
		good:  color.New(color.FgGreen),
		bad:   color.New(color.FgHiRed),
		arrow: color.New(color.FgHiCyan),
	}
	for _, c := range []*color.Color{t.value, t.good, t.bad, t.arrow} {
		switch mode {
		case colorAlways:
			c.EnableColor()
		case colorNever:
			c.DisableColor()
		}
	}

	return t
}
