// Package cmdline renders an argument vector as a single command line for
// display. Nothing in arcwrap executes the rendered string.
package cmdline

import (
	"strings"
)

// Format joins path and args into one line using the quoting rules
// understood by CommandLineToArgvW, so the preview can be pasted into cmd.exe.
func Format(path string, args []string) string {
	var b strings.Builder
	b.WriteString(Quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(Quote(a))
	}
	return b.String()
}

// Quote returns s quoted if it is empty or contains whitespace or a double quote.
func Quote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\n\v\"") {
		return s
	}

	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			// Backslashes preceding a quote are doubled, plus one for the quote.
			b.WriteString(strings.Repeat(`\`, slashes*2+1))
			slashes = 0
			b.WriteByte('"')
			continue
		default:
			b.WriteString(strings.Repeat(`\`, slashes))
			slashes = 0
		}
		if c != '\\' {
			b.WriteByte(c)
		}
	}
	// Trailing backslashes would escape the closing quote.
	b.WriteString(strings.Repeat(`\`, slashes*2))
	b.WriteByte('"')
	return b.String()
}
