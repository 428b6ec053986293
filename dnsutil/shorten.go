package dnsutil

import (
	"errors"
	"io"
	"strings"
)

// shortenedError keeps the original error reachable via errors.Is/As.
type shortenedError struct {
	msg string
	err error
}

func (t *shortenedError) Error() string {
	return t.msg
}

func (t *shortenedError) Unwrap() error {
	return t.err
}

// Substrings of the long net.OpError texts and their one-line replacements. First match
// wins.
var shortForms = []struct{ contains, short string }{
	{"i/o timeout", "Timeout"},
	{"connection refused", "Connection refused"},
	{"connection reset", "Connection reset"},
	{"no route to host", "No route to host"},
	{"use of closed network connection", "Connection closed"},
}

// ShortenLookupError turns a long unwieldy error return from a network exchange into a
// succinct error in the common cases. Used for debug traces and the one-line fatal
// messages. A server which closes an AXFR connection part way through shows up as EOF.
func ShortenLookupError(err error) error {
	if err == nil {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &shortenedError{msg: "Connection closed by server", err: err}
	}

	m := err.Error()
	for _, sf := range shortForms {
		if strings.Contains(m, sf.contains) {
			return &shortenedError{msg: sf.short, err: err}
		}
	}

	return err
}
