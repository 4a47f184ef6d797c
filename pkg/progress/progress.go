// Package progress provides a terminal progress bar for the pipeline's
// long-running batch stages (corpus loading, training epochs).
// On non-terminal writers it degrades to plain start/finish lines so logs
// stay readable.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI escape sequences for terminal control.
const (
	// clearLine clears the current line and moves the cursor to its start.
	clearLine = "\r\033[K"

	colorGreen = "\033[32m"
	colorReset = "\033[0m"

	symbolDone = "✓"
)

// Config holds configuration options for a progress bar.
type Config struct {
	// Total is the number of items to process. Must be > 0 for the bar to
	// display meaningful progress.
	Total int

	// Message is the text displayed next to the bar.
	Message string

	// Width is the bar width in characters. Defaults to 20.
	Width int

	// ShowCount displays the current/total count (e.g., "(8/20)").
	ShowCount bool

	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer

	// IsTTY indicates whether the output is a terminal. When false the bar
	// falls back to static start/finish messages. Auto-detected from the
	// Writer if not set.
	IsTTY *bool
}

// Bar renders batch progress on a terminal.
type Bar struct {
	mu      sync.Mutex
	config  Config
	current int
	started bool
	tty     bool
}

// New creates a progress bar from the config, applying defaults.
func New(cfg Config) *Bar {
	if cfg.Width <= 0 {
		cfg.Width = 20
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	tty := false
	if cfg.IsTTY != nil {
		tty = *cfg.IsTTY
	} else if f, ok := cfg.Writer.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	return &Bar{config: cfg, tty: tty}
}

// Increment advances the bar by one item and redraws it.
func (b *Bar) Increment() {
	b.Set(b.Current() + 1)
}

// Set moves the bar to an absolute position and redraws it.
func (b *Bar) Set(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > b.config.Total {
		n = b.config.Total
	}
	b.current = n

	if !b.tty {
		if !b.started {
			fmt.Fprintf(b.config.Writer, "%s\n", b.config.Message)
			b.started = true
		}
		return
	}

	b.started = true
	fmt.Fprintf(b.config.Writer, "%s%s", clearLine, b.render())
}

// Current returns the bar's position.
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Finish completes the bar and prints a final success line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.config.Total
	if b.tty {
		fmt.Fprint(b.config.Writer, clearLine)
	}
	fmt.Fprintf(b.config.Writer, "%s%s%s %s\n", colorGreen, symbolDone, colorReset, b.config.Message)
}

// render draws the bar line: message, bar, optional count.
func (b *Bar) render() string {
	filled := 0
	if b.config.Total > 0 {
		filled = b.current * b.config.Width / b.config.Total
	}
	if filled > b.config.Width {
		filled = b.config.Width
	}

	var sb strings.Builder
	sb.WriteString(b.config.Message)
	sb.WriteString(" [")
	sb.WriteString(strings.Repeat("=", filled))
	sb.WriteString(strings.Repeat(" ", b.config.Width-filled))
	sb.WriteString("]")
	if b.config.ShowCount {
		fmt.Fprintf(&sb, " (%d/%d)", b.current, b.config.Total)
	}
	return sb.String()
}
