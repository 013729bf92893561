package tui

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether output written to f should be colored.
//
// Returns false if:
//   - NO_COLOR is set (https://no-color.org)
//   - CI is set (common CI/CD convention)
//   - f is not a terminal (piped or redirected output)
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
