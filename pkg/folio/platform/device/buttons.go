// Package device drives the real reader: buttons through evdev, the panel
// through the Linux framebuffer and power through sysfs.
package device

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/holoplot/go-evdev"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// KeyMap maps input event key codes to reader buttons.
type KeyMap map[evdev.EvCode]constants.Button

// DefaultKeyMap covers the GPIO keys and the power key of the reader.
var DefaultKeyMap = KeyMap{
	evdev.KEY_BACK:     constants.ButtonBack,
	evdev.KEY_ESC:      constants.ButtonBack,
	evdev.KEY_ENTER:    constants.ButtonConfirm,
	evdev.KEY_SELECT:   constants.ButtonConfirm,
	evdev.KEY_LEFT:     constants.ButtonLeft,
	evdev.KEY_PAGEUP:   constants.ButtonLeft,
	evdev.KEY_RIGHT:    constants.ButtonRight,
	evdev.KEY_PAGEDOWN: constants.ButtonRight,
	evdev.KEY_UP:       constants.ButtonUp,
	evdev.KEY_DOWN:     constants.ButtonDown,
	evdev.KEY_POWER:    constants.ButtonPower,
}

// Key event values.
const (
	keyUp     = 0
	keyDown   = 1
	keyRepeat = 2
)

// Buttons reads key events from one or more input devices on background
// goroutines and keeps the button mask current.
type Buttons struct {
	keys   KeyMap
	logger *slog.Logger

	devices []*evdev.InputDevice
	state   atomic.Uint32
	err     atomic.Error
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// OpenButtons opens every path and starts reading. A nil keys uses
// DefaultKeyMap.
func OpenButtons(paths []string, keys KeyMap, logger *slog.Logger) (*Buttons, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input devices given")
	}
	b := newButtons(keys, logger)

	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open input %s: %w", path, err)
		}
		name, _ := dev.Name()
		b.logger.Debug("Opened input device", "path", path, "name", name)
		b.devices = append(b.devices, dev)
	}

	for _, dev := range b.devices {
		b.wg.Add(1)
		go b.read(dev)
	}
	return b, nil
}

func newButtons(keys KeyMap, logger *slog.Logger) *Buttons {
	if keys == nil {
		keys = DefaultKeyMap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Buttons{keys: keys, logger: logger}
}

func (b *Buttons) read(dev *evdev.InputDevice) {
	defer b.wg.Done()
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if !b.closed.Load() {
				b.logger.Error("Input device failed", "error", err)
				b.err.Store(err)
			}
			return
		}
		b.handle(ev)
	}
}

// handle applies one input event to the mask.
func (b *Buttons) handle(ev *evdev.InputEvent) {
	if ev.Type != evdev.EV_KEY || ev.Value == keyRepeat {
		return
	}
	btn, ok := b.keys[ev.Code]
	if !ok {
		return
	}
	for {
		old := b.state.Load()
		next := old | uint32(btn.Mask())
		if ev.Value == keyUp {
			next = old &^ uint32(btn.Mask())
		}
		if b.state.CompareAndSwap(old, next) {
			return
		}
	}
}

// ReadButtons implements folio.ButtonSource. Once a device fails every read
// returns its error.
func (b *Buttons) ReadButtons() (uint8, error) {
	if err := b.err.Load(); err != nil {
		return 0, err
	}
	return uint8(b.state.Load()), nil
}

// Close closes the devices and waits for the readers to stop.
func (b *Buttons) Close() error {
	b.closed.Store(true)
	var errs []error
	for _, dev := range b.devices {
		if err := dev.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.wg.Wait()
	return errors.Join(errs...)
}
