package gfx

import (
	"image"
	"sync"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Panel is the physical display. Present receives a frame in the panel's
// native landscape layout; the renderer does not touch it afterwards.
type Panel interface {
	Present(frame *image.Gray, mode constants.RefreshMode) error
}

// Frame is one presented frame.
type Frame struct {
	Image *image.Gray
	Mode  constants.RefreshMode
}

// MemoryPanel keeps presented frames in memory. It backs the headless
// runtime and tests.
type MemoryPanel struct {
	mu     sync.Mutex
	frames []Frame
	limit  int
}

// NewMemoryPanel keeps at most limit frames; zero keeps all of them.
func NewMemoryPanel(limit int) *MemoryPanel {
	return &MemoryPanel{limit: limit}
}

func (p *MemoryPanel) Present(frame *image.Gray, mode constants.RefreshMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, Frame{Image: frame, Mode: mode})
	if p.limit > 0 && len(p.frames) > p.limit {
		p.frames = p.frames[len(p.frames)-p.limit:]
	}
	return nil
}

// Frames returns a copy of the recorded frames, oldest first.
func (p *MemoryPanel) Frames() []Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Frame(nil), p.frames...)
}

// Last returns the most recent frame.
func (p *MemoryPanel) Last() (Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.frames) == 0 {
		return Frame{}, false
	}
	return p.frames[len(p.frames)-1], true
}
