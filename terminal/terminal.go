// Package terminal adapts a real terminal to the overlay engine.
package terminal

import (
	"os"

	"golang.org/x/term"

	"github.com/yeeaiclub/fastoverlay"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Platform measures the controlling terminal. The body of a terminal
// document overflows when its content is taller than the window.
type Platform struct {
	fd        int
	body      *fastoverlay.Element
	scrollbar int
}

func NewPlatform(body *fastoverlay.Element) *Platform {
	return &Platform{
		fd:        int(os.Stdout.Fd()),
		body:      body,
		scrollbar: 1,
	}
}

// Size returns the terminal size, or 80x24 when stdout is not a terminal.
func (p *Platform) Size() (int, int) {
	if !term.IsTerminal(p.fd) {
		return defaultWidth, defaultHeight
	}
	w, h, err := term.GetSize(p.fd)
	if err != nil {
		return defaultWidth, defaultHeight
	}
	return w, h
}

func (p *Platform) ScrollbarWidth() int {
	return p.scrollbar
}

func (p *Platform) IsOverflowing(container *fastoverlay.Element) bool {
	if container == p.body {
		_, h := p.Size()
		return container.ScrollHeight() > h
	}
	return container.ScrollHeight() > container.ClientHeight()
}
