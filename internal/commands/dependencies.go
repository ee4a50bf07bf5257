package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/mcchat/internal/api"
	"github.com/diogo/mcchat/internal/render"
	"github.com/diogo/mcchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, session tui.SessionInterface, opts render.Options) error
	RunConfig(ctx context.Context) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client replaces the HTTP chat client when set.
	Client api.ChatClient

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool

	// Copy writes text to the system clipboard.
	Copy func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, session tui.SessionInterface, opts render.Options) error {
	return tui.RunChat(ctx, session, opts)
}

func (d *DefaultTUI) RunConfig(ctx context.Context) error {
	return tui.RunConfig(ctx)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:    &DefaultTUI{},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTTY:  isStdoutTTY,
		Copy:   clipboard.WriteAll,
	}
}

// withDefaults fills unset fields so tests only set what they need
func (d *Dependencies) withDefaults() *Dependencies {
	out := NewDependencies()
	if d == nil {
		return out
	}
	if d.Client != nil {
		out.Client = d.Client
	}
	if d.TUI != nil {
		out.TUI = d.TUI
	}
	if d.Stdin != nil {
		out.Stdin = d.Stdin
	}
	if d.Stdout != nil {
		out.Stdout = d.Stdout
	}
	if d.Stderr != nil {
		out.Stderr = d.Stderr
	}
	if d.IsTTY != nil {
		out.IsTTY = d.IsTTY
	}
	if d.Copy != nil {
		out.Copy = d.Copy
	}
	return out
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
