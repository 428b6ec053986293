package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type logLevel int

const (
	SilentLevel logLevel = iota
	MajorLevel
	MinorLevel
	DebugLevel
)

var (
	majorPrefix = ""        // Prepended to each line of output
	minorPrefix = ""        // Minor output is indented by the caller where needed
	debugPrefix = "   Dbg:" // Makes exchange traces stand out from the report

	mu    sync.Mutex
	out   io.Writer = os.Stdout
	level           = MajorLevel
)

func (t logLevel) String() string {
	switch t {
	case MajorLevel:
		return "Major"
	case MinorLevel:
		return "Minor"
	case DebugLevel:
		return "Debug"
	}

	return "Silent"
}

// SetOut changes the output of logging to the supplied io.Writer. The default is
// os.Stdout. The supplied io.Writer must never be nil.
func SetOut(w io.Writer) {
	if w == nil {
		panic("log.SetOut() called with a nil io.Writer")
	}
	mu.Lock()
	out = w
	mu.Unlock()
}

// Out returns the current io.Writer for presentation functions which are not controlled
// by log levels. The return value will never be nil.
func Out() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// SetLevel sets the current logging level.
func SetLevel(l logLevel) {
	mu.Lock()
	level = l
	mu.Unlock()
}

func Level() logLevel {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// IfMajor returns true if Major logging is written to the output stream. Callers use the
// If* functions when evaluating the log arguments is expensive.
func IfMajor() bool {
	return Level() >= MajorLevel
}

func IfMinor() bool {
	return Level() >= MinorLevel
}

func IfDebug() bool {
	return Level() >= DebugLevel
}

// Majorf provides an approximate fmt.Printf equivalent interface to logging. Output is
// only generated if the level is >= Major. A newline is always added to the end of the
// output so the caller should not include one.
func Majorf(format string, a ...interface{}) (n int, err error) {
	return printAt(MajorLevel, majorPrefix, fmt.Sprintf(format, a...))
}

// Major provides a fmt.Print like interface to logging. It inherits the fmt.Sprint
// feature whereby spaces are added between operands when neither is a string.
func Major(a ...interface{}) (n int, err error) {
	return printAt(MajorLevel, majorPrefix, fmt.Sprint(a...))
}

func Minorf(format string, a ...interface{}) (n int, err error) {
	return printAt(MinorLevel, minorPrefix, fmt.Sprintf(format, a...))
}

func Minor(a ...interface{}) (n int, err error) {
	return printAt(MinorLevel, minorPrefix, fmt.Sprint(a...))
}

func Debugf(format string, a ...interface{}) (n int, err error) {
	return printAt(DebugLevel, debugPrefix, fmt.Sprintf(format, a...))
}

func Debug(a ...interface{}) (n int, err error) {
	return printAt(DebugLevel, debugPrefix, fmt.Sprint(a...))
}

// printAt formats are evaluated by the caller even when the level suppresses output. Use
// the If* functions to avoid that cost.
func printAt(l logLevel, prefix, lines string) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	if level < l {
		return 0, nil
	}

	return prefixAndPrintLines(lines, prefix)
}

// prefixAndPrintLines takes potentially multiple lines and sends them to the out stream
// with each line prefixed. Caller holds mu.
func prefixAndPrintLines(lines, prefix string) (int, error) {
	if !strings.Contains(lines, "\n") { // Expect this to be the common case
		return fmt.Fprint(out, prefix, lines, "\n")
	}

	ar := strings.Split(lines, "\n")
	for len(ar) > 0 && len(ar[len(ar)-1]) == 0 { // Chomp trailing empty lines
		ar = ar[:len(ar)-1]
	}

	s := strings.Join(ar, "\n"+prefix) // Line1 \nprefix Line2 \nprefix Line3

	return fmt.Fprint(out, prefix, s, "\n")
}
