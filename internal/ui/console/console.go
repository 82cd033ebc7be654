// Package console is the stdin/stdout fallback for draft approval when no
// Telegram bot is configured.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"trailblog/internal/core/ports"
)

type UI struct {
	In  io.Reader
	Out io.Writer
}

func New() *UI {
	return &UI{In: os.Stdin, Out: os.Stdout}
}

var _ ports.Interaction = (*UI)(nil)

func (ui *UI) Confirm(ctx context.Context, title, body string) (ports.UserAction, error) {
	fmt.Fprintf(ui.Out, "\n=== %s ===\n%s\n", title, body)
	fmt.Fprint(ui.Out, "[a]pprove / [r]egenerate / [s]kip: ")

	reader := bufio.NewReader(ui.In)
	for {
		if err := ctx.Err(); err != nil {
			return ports.ActionSkip, err
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return ports.ActionSkip, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "approve", "y", "yes":
			return ports.ActionApprove, nil
		case "r", "regenerate":
			return ports.ActionRegenerate, nil
		case "s", "skip", "n", "no":
			return ports.ActionSkip, nil
		default:
			fmt.Fprint(ui.Out, "Please answer a, r, or s: ")
		}
	}
}
