// Package emulator runs the reader in an SDL window on a desktop. The
// window is the panel and the keyboard is the button source.
//
// SDL must be driven from the main OS thread: call Open and Close there and
// run the folio main loop on the same goroutine, since ReadButtons pumps
// window events and paints the latest frame.
package emulator

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Options configures the emulator window.
type Options struct {
	Title  string
	Scale  float32 // Window size relative to the panel; 0 means 1
	Window WindowOptions
	Keys   KeyMap // nil uses DefaultKeyMap
	Logger *slog.Logger
}

// Window is the emulated device.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	keys     KeyMap
	logger   *slog.Logger

	// Main thread only.
	buttons uint8

	mu      sync.Mutex
	pending *image.Gray
	mode    constants.RefreshMode

	quitOnce sync.Once
	quit     chan struct{}
}

// Open initializes SDL and creates the window.
func Open(opts Options) (*Window, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Title == "" {
		opts.Title = "Folio"
	}
	if opts.Keys == nil {
		opts.Keys = DefaultKeyMap
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init sdl: %w", err)
	}

	width := int32(float32(constants.DisplayWidth) * opts.Scale)
	height := int32(float32(constants.DisplayHeight) * opts.Scale)
	opts.Logger.Debug("Initializing SDL Window", "width", width, "height", height)

	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, opts.Window.ToSDLFlags())
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		opts.Logger.Warn("Accelerated renderer unavailable, falling back to software", "error", err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
	}
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	renderer.SetLogicalSize(constants.DisplayWidth, constants.DisplayHeight)

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		constants.DisplayWidth, constants.DisplayHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	return &Window{
		window:   window,
		renderer: renderer,
		texture:  texture,
		keys:     opts.Keys,
		logger:   opts.Logger,
		quit:     make(chan struct{}),
	}, nil
}

// Present implements folio.Panel. It is called from the render task and
// only hands the frame over; the main thread paints it.
func (w *Window) Present(frame *image.Gray, mode constants.RefreshMode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = frame
	w.mode = mode
	return nil
}

// ReadButtons implements folio.ButtonSource. It drains window events,
// paints a pending frame and returns the keyboard state.
func (w *Window) ReadButtons() (uint8, error) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.quitOnce.Do(func() { close(w.quit) })
		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			w.buttons = w.keys.apply(w.buttons, e.Keysym.Sym, e.Type == sdl.KEYDOWN)
		}
	}

	if err := w.paint(); err != nil {
		return w.buttons, err
	}
	return w.buttons, nil
}

// Quit is closed when the window is closed.
func (w *Window) Quit() <-chan struct{} {
	return w.quit
}

func (w *Window) paint() error {
	w.mu.Lock()
	frame, mode := w.pending, w.mode
	w.pending = nil
	w.mu.Unlock()
	if frame == nil {
		return nil
	}

	pixels, pitch, err := w.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("lock texture: %w", err)
	}
	copyGray(pixels, pitch, frame)
	w.texture.Unlock()

	if mode == constants.FullRefresh {
		// Flash like the panel does on a full refresh.
		w.renderer.SetDrawColor(0, 0, 0, 255)
		w.renderer.Clear()
		w.renderer.Present()
	}
	w.renderer.SetDrawColor(255, 255, 255, 255)
	w.renderer.Clear()
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("copy frame: %w", err)
	}
	w.renderer.Present()
	return nil
}

// copyGray writes frame into an ARGB8888 buffer, which is B, G, R, A in
// memory on little-endian machines.
func copyGray(dst []byte, pitch int, frame *image.Gray) {
	b := frame.Bounds()
	for y := 0; y < b.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+b.Dx()]
		row := dst[y*pitch:]
		for x, v := range src {
			i := x * 4
			row[i] = v
			row[i+1] = v
			row[i+2] = v
			row[i+3] = 0xff
		}
	}
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}
