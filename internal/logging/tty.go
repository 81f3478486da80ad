package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether the writer is attached to a terminal. Anything
// exposing an Fd method (os.File and wrappers) is probed; other writers
// are assumed not to be terminals.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether the console handler may emit ANSI color
// codes to the writer. Color requires a terminal and is suppressed by
// the NO_COLOR convention (https://no-color.org) and by TERM=dumb.
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(w io.Writer, isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
