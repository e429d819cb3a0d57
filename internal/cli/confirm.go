package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TerminalConfirmer asks a yes/no question on the terminal. It satisfies
// engine.Confirmer.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the prompt and reads one line; "y" and "yes" (any case)
// answer yes, everything else no.
func (t TerminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(t.Out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
