package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Tabula ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Teal/Sky)
	lines := []struct {
		text  string
		color string
	}{
		{"  _____     _           _       ", "#2dd4bf"},
		{" |_   _|_ _| |__  _   _| | __ _ ", "#22d3ee"},
		{"   | |/ _` | '_ \\| | | | |/ _` |", "#38bdf8"},
		{"   | | (_| | |_) | |_| | | (_| |", "#60a5fa"},
		{"   |_|\\__,_|_.__/ \\__,_|_|\\__,_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
