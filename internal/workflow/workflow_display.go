package workflow

import (
	"fmt"
	"io"
	"sync"
)

// Display is the user-facing surface: one status region plus transient
// notices.
type Display interface {
	SetStatus(text string)
	Notify(text string)
	Greet(text string)
}

type TerminalDisplay struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{out: out}
}

func (d *TerminalDisplay) SetStatus(text string) {
	d.write("status", text)
}

func (d *TerminalDisplay) Notify(text string) {
	d.write("notice", text)
}

func (d *TerminalDisplay) Greet(text string) {
	d.write("welcome", text)
}

func (d *TerminalDisplay) write(region, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[%s] %s\n", region, text)
}
