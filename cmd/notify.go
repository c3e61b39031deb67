package cmd

import (
	"fmt"
	"io"
)

// consoleNotifier prints dashboard outcomes for the terminal user
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Success(msg string) { fmt.Fprintln(n.w, "✓ "+msg) }
func (n consoleNotifier) Warn(msg string)    { fmt.Fprintln(n.w, "! "+msg) }
func (n consoleNotifier) Error(msg string)   { fmt.Fprintln(n.w, "✗ "+msg) }
